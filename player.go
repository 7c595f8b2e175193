package picosynth

import (
	"io"
	"log"
	"strings"
	"sync"

	"github.com/pkg/errors"

	intaudio "github.com/cbegin/picosynth-go/internal/audio"
	intfx "github.com/cbegin/picosynth-go/internal/effects"
	intmixer "github.com/cbegin/picosynth-go/internal/mixer"
	intmusic "github.com/cbegin/picosynth-go/internal/music"
	intsfx "github.com/cbegin/picosynth-go/internal/sfx"
)

// Controller is the trigger surface shared by Player and offline renders.
type Controller interface {
	Sfx(n, channel, offset, length int)
	Music(n, fadeLenMs, channelMask int)
}

type Backend string

const (
	BackendEbiten Backend = "ebiten"
	BackendOto    Backend = "oto"
	// BackendNone opens no device; the caller pulls samples with Process.
	BackendNone Backend = "none"
)

func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case BackendEbiten, BackendOto, BackendNone:
		return b, nil
	}
	return "", errors.Errorf("unknown backend %q", s)
}

type PlayerOption func(*playerConfig)

type playerConfig struct {
	bufferSize int
	backend    Backend
	logger     *log.Logger
	sampleTap  func([]float32)
	volume     float64
}

func defaultPlayerConfig() playerConfig {
	return playerConfig{
		bufferSize: intmixer.DefaultParams().BufferSize,
		backend:    BackendEbiten,
		logger:     log.New(io.Discard, "", 0),
		volume:     1,
	}
}

// WithBufferSize sets the fixed size of the mixer's buffers. Device reads of
// any size are served from them.
func WithBufferSize(n int) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.bufferSize = n
	}
}

func WithBackend(b Backend) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.backend = b
	}
}

// WithLogger routes playback messages to l. By default they are discarded.
func WithLogger(l *log.Logger) PlayerOption {
	return func(cfg *playerConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// WithSampleTap installs a callback invoked with each generated mono buffer.
// The callback runs on the audio thread; keep work brief and non-blocking.
func WithSampleTap(tap func([]float32)) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.sampleTap = tap
	}
}

func WithMasterVolume(volume float64) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.volume = volume
	}
}

// Player owns an audio unit and feeds it to an output device. Trigger calls
// and device pulls are serialized by a mutex.
type Player struct {
	mu         sync.Mutex
	unit       *intmixer.AudioUnit
	sampleRate int
	backend    Backend
	device     intaudio.Device
	logger     *log.Logger
	sampleTap  func([]float32)
	pending    []float32 // unread tail of the last unit buffer
	volume     float64
	gain       *intfx.Gain
	masterEQ   *intfx.EQ5Band
	master     *intfx.Chain
}

func NewPlayer(sampleRate int, tables Tables, opts ...PlayerOption) (*Player, error) {
	cfg := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if _, err := ParseBackend(string(cfg.backend)); err != nil {
		return nil, err
	}
	logger := cfg.logger
	unit, err := intmixer.NewWithOptions(
		intmixer.Params{SampleRate: sampleRate, BufferSize: cfg.bufferSize},
		intsfx.Table(tables.SFX),
		intmusic.Table(tables.Music),
		intmixer.Options{OnPatternChange: func(pattern int) {
			if pattern < 0 {
				logger.Printf("music: stopped")
				return
			}
			logger.Printf("music: pattern %d", pattern)
		}},
	)
	if err != nil {
		return nil, errors.Wrap(err, "create audio unit")
	}
	p := &Player{
		unit:       unit,
		sampleRate: sampleRate,
		backend:    cfg.backend,
		logger:     logger,
		sampleTap:  cfg.sampleTap,
		gain:       intfx.NewGain(1),
		masterEQ:   intfx.NewEQ5Band(sampleRate),
	}
	p.master = intfx.NewChain(p.gain, p.masterEQ)
	p.SetMasterVolume(cfg.volume)
	return p, nil
}

// Process fills dst with the next mono samples. It implements the device
// backends' sample source.
func (p *Player) Process(dst []float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for filled := 0; filled < len(dst); {
		if len(p.pending) == 0 {
			p.pending = p.unit.RequestBuffer()
		}
		n := copy(dst[filled:], p.pending)
		p.pending = p.pending[n:]
		filled += n
	}
	p.master.ProcessBuffer(dst)
	if p.sampleTap != nil {
		p.sampleTap(dst)
	}
}

func (p *Player) Sfx(n, channel, offset, length int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unit.Sfx(n, channel, offset, length)
}

func (p *Player) Music(n, fadeLenMs, channelMask int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unit.Music(n, fadeLenMs, channelMask)
}

// SetMusicChannelMask mutes the music channels whose bit is clear.
func (p *Player) SetMusicChannelMask(mask int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unit.SetMusicChannelMask(mask)
}

// StopAll silences every one-shot channel and the song.
func (p *Player) StopAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unit.Sfx(intmixer.StopSfx, intmixer.AnyChannel, 0, 0)
	p.unit.Music(-1, 0, 0)
}

func (p *Player) MusicPattern() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.unit.MusicPattern()
}

func (p *Player) MusicPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.unit.MusicPlaying()
}

// ChannelInstrument returns the instrument on one-shot channel ch, or -1.
func (p *Player) ChannelInstrument(ch int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.unit.ChannelInstrument(ch)
}

// Idle reports whether nothing is sounding.
func (p *Player) Idle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.unit.MusicPlaying() {
		return false
	}
	for ch := 0; ch < intmixer.NumChannels; ch++ {
		if p.unit.ChannelInstrument(ch) >= 0 {
			return false
		}
	}
	return true
}

func (p *Player) SampleRate() int { return p.sampleRate }

// Start opens the configured backend and begins pulling audio. With
// BackendNone it does nothing.
func (p *Player) Start() error {
	p.mu.Lock()
	if p.device != nil || p.backend == BackendNone {
		p.mu.Unlock()
		return nil
	}
	var (
		dev intaudio.Device
		err error
	)
	switch p.backend {
	case BackendEbiten:
		dev, err = intaudio.NewPlayer(p.sampleRate, p)
	case BackendOto:
		dev, err = intaudio.NewOtoPlayer(p.sampleRate, p)
	}
	if err != nil {
		p.mu.Unlock()
		return errors.Wrapf(err, "open %s backend", p.backend)
	}
	p.device = dev
	p.mu.Unlock()

	// Devices may pull through Process from inside Play.
	dev.Play()
	p.logger.Printf("audio: %s backend at %d Hz", p.backend, p.sampleRate)
	return nil
}

func (p *Player) currentDevice() intaudio.Device {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.device
}

func (p *Player) Pause() {
	if dev := p.currentDevice(); dev != nil {
		dev.Pause()
	}
}

// Playing reports whether a device is open and not paused.
func (p *Player) Playing() bool {
	dev := p.currentDevice()
	return dev != nil && dev.IsPlaying()
}

func (p *Player) Resume() {
	if dev := p.currentDevice(); dev != nil {
		dev.Play()
	}
}

// Stop closes the device. The audio unit keeps its state.
func (p *Player) Stop() error {
	p.mu.Lock()
	dev := p.device
	p.device = nil
	p.mu.Unlock()
	if dev == nil {
		return nil
	}
	return dev.Stop()
}

// SetMasterVolume sets runtime volume scalar. 1.0 is default.
func (p *Player) SetMasterVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = volume
	p.gain.Set(float32(volume))
}

func (p *Player) MasterVolume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetEQBand sets the gain for a master EQ band (0-4). 1.0 = unity.
// Band frequencies: 0=<200Hz, 1=200-800Hz, 2=800-2.5kHz, 3=2.5-8kHz, 4=>8kHz.
// This takes effect immediately on the audio thread (lock-free).
func (p *Player) SetEQBand(band int, gain float32) {
	p.masterEQ.SetGain(band, gain)
}

// EQBand returns the current gain for a master EQ band (0-4).
func (p *Player) EQBand(band int) float32 {
	return p.masterEQ.Gain(band)
}
