package audio

import (
	"encoding/binary"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
	"github.com/pkg/errors"
)

// otoBufferSize is how many samples are pulled from the source per Read.
const otoBufferSize = 1024

var (
	otoContextOnce sync.Once
	otoContext     *oto.Context
	otoContextErr  error
	otoSampleRate  int
)

// oto allows a single context per process.
func sharedOtoContext(sampleRate int) (*oto.Context, error) {
	otoContextOnce.Do(func() {
		otoSampleRate = sampleRate
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 1,
			Format:       oto.FormatFloat32LE,
		})
		if err != nil {
			otoContextErr = errors.Wrap(err, "create oto context")
			return
		}
		<-ready
		otoContext = ctx
	})
	if otoContextErr != nil {
		return nil, otoContextErr
	}
	if otoSampleRate != sampleRate {
		return nil, errors.Errorf("oto context already initialized at %d Hz (requested %d Hz)", otoSampleRate, sampleRate)
	}
	return otoContext, nil
}

// OtoPlayer plays a mono source directly through oto. Read is lock-free; the
// mutex only guards setup and transport control.
type OtoPlayer struct {
	source    atomic.Pointer[sourceRef]
	sampleBuf []float32
	player    *oto.Player
	mu        sync.Mutex
}

type sourceRef struct {
	SampleSource
}

func NewOtoPlayer(sampleRate int, source SampleSource) (*OtoPlayer, error) {
	ctx, err := sharedOtoContext(sampleRate)
	if err != nil {
		return nil, err
	}
	op := &OtoPlayer{sampleBuf: make([]float32, otoBufferSize)}
	op.SetSource(source)
	op.player = ctx.NewPlayer(op)
	return op, nil
}

// SetSource swaps the source. A nil source plays silence.
func (op *OtoPlayer) SetSource(source SampleSource) {
	if source == nil {
		op.source.Store(nil)
		return
	}
	op.source.Store(&sourceRef{source})
}

func (op *OtoPlayer) Read(p []byte) (int, error) {
	n := len(p) / 4
	ref := op.source.Load()
	if ref == nil {
		for i := range p[:n*4] {
			p[i] = 0
		}
		return n * 4, nil
	}
	if len(op.sampleBuf) < n {
		op.sampleBuf = make([]float32, n)
	}
	samples := op.sampleBuf[:n]
	ref.Process(samples)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	return n * 4, nil
}

func (op *OtoPlayer) Play() {
	op.mu.Lock()
	defer op.mu.Unlock()
	if op.player != nil {
		op.player.Play()
	}
}

func (op *OtoPlayer) Pause() {
	op.mu.Lock()
	defer op.mu.Unlock()
	if op.player != nil {
		op.player.Pause()
	}
}

func (op *OtoPlayer) IsPlaying() bool {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.player != nil && op.player.IsPlaying()
}

func (op *OtoPlayer) Stop() error {
	op.mu.Lock()
	defer op.mu.Unlock()
	if op.player == nil {
		return nil
	}
	err := op.player.Close()
	op.player = nil
	op.SetSource(nil)
	return errors.Wrap(err, "close oto player")
}
