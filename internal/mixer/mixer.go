package mixer

import (
	"github.com/pkg/errors"

	"github.com/cbegin/picosynth-go/internal/effects"
	"github.com/cbegin/picosynth-go/internal/music"
	"github.com/cbegin/picosynth-go/internal/sfx"
)

// NumChannels is the number of one-shot channels.
const NumChannels = 4

// Channel selectors accepted by Sfx.
const (
	AnyChannel = -1 // first free channel
	NoChannel  = -2 // do nothing
)

// Instrument selectors accepted by Sfx.
const (
	StopSfx    = -1
	ReleaseSfx = -2
)

// musicSeed keeps music voice noise streams apart from one-shot voices.
const musicSeed = 1 << 32

// Params holds session-wide settings. Neither can change after New.
type Params struct {
	SampleRate int
	BufferSize int
}

func DefaultParams() Params {
	return Params{SampleRate: 48000, BufferSize: 2048}
}

func (p Params) validate() error {
	if p.SampleRate <= 0 {
		return errors.Errorf("sample rate must be positive, got %d", p.SampleRate)
	}
	if p.BufferSize <= 0 {
		return errors.Errorf("buffer size must be positive, got %d", p.BufferSize)
	}
	return nil
}

type Options struct {
	// OnPatternChange is forwarded to the song sequencer.
	OnPatternChange func(pattern int)
}

// AudioUnit owns the one-shot channels and the song sequencer and mixes them
// into fixed-size buffers. It does no locking; callers serialize access.
type AudioUnit struct {
	params      Params
	instruments sfx.Table
	music       *music.Sequencer
	channels    [NumChannels]*sfx.Voice
	mix         []float32
	out         []float32
	seed        int64
}

func New(params Params, instruments sfx.Table, patterns music.Table) (*AudioUnit, error) {
	return NewWithOptions(params, instruments, patterns, Options{})
}

func NewWithOptions(params Params, instruments sfx.Table, patterns music.Table, opts Options) (*AudioUnit, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	return &AudioUnit{
		params:      params,
		instruments: instruments,
		music: music.NewWithOptions(patterns, instruments, params.SampleRate, music.Options{
			OnPatternChange: opts.OnPatternChange,
			Seed:            musicSeed,
		}),
		mix: make([]float32, params.BufferSize),
		out: make([]float32, params.BufferSize),
	}, nil
}

func (u *AudioUnit) Params() Params { return u.params }

// RequestBuffer mixes the next buffer. The returned slice is reused and is
// only valid until the next call.
func (u *AudioUnit) RequestBuffer() []float32 {
	for i := range u.mix {
		u.mix[i] = 0
	}
	for i, v := range u.channels {
		if v != nil && !v.Update(u.mix) {
			u.channels[i] = nil
		}
	}
	u.music.Update(u.mix)
	effects.SoftClipBuffer(u.mix)
	copy(u.out, u.mix)
	return u.out
}

// Sfx triggers or stops a one-shot instrument.
//
//	n == -1: stop channel, or every channel when channel is -1
//	n == -2: let the voice on channel finish its loop and end
//	n >= 0:  play steps [offset, offset+length-1] of instrument n on channel,
//	         or on the first free channel when channel is -1
//
// Anything out of range is ignored.
func (u *AudioUnit) Sfx(n, channel, offset, length int) {
	switch {
	case n == StopSfx:
		if channel == AnyChannel {
			for i := range u.channels {
				u.stopChannel(i)
			}
			return
		}
		if validChannel(channel) {
			u.stopChannel(channel)
		}
	case n == ReleaseSfx:
		if validChannel(channel) {
			if v := u.channels[channel]; v != nil && v.Alive() {
				v.ReleaseLoop()
			}
		}
	case n >= 0:
		u.trigger(n, channel, offset, length)
	}
}

func (u *AudioUnit) trigger(n, channel, offset, length int) {
	if channel == NoChannel || (channel != AnyChannel && !validChannel(channel)) {
		return
	}
	inst, ok := u.instruments.Instrument(n)
	if !ok {
		return
	}
	for i, v := range u.channels {
		if v != nil && v.Alive() && v.Index() == n {
			u.stopChannel(i)
		}
	}
	if channel == AnyChannel {
		channel = u.freeChannel()
		if channel < 0 {
			return
		}
	}
	u.seed++
	v := sfx.NewVoice(n, inst, u.params.SampleRate, u.seed)
	v.Start(offset, length, 0)
	u.channels[channel] = v
}

func (u *AudioUnit) freeChannel() int {
	for i, v := range u.channels {
		if v == nil || !v.Alive() {
			return i
		}
	}
	return -1
}

func (u *AudioUnit) stopChannel(i int) {
	if v := u.channels[i]; v != nil {
		v.Stop()
		u.channels[i] = nil
	}
}

// Music starts the song at pattern n. A negative n stops the song.
// fadeLenMs and channelMask are accepted for compatibility and ignored.
func (u *AudioUnit) Music(n, fadeLenMs, channelMask int) {
	_, _ = fadeLenMs, channelMask
	if n < 0 {
		u.music.Stop()
		return
	}
	if n >= music.NumPatterns {
		return
	}
	u.music.Start(n)
}

// SetMusicChannelMask mutes music channels whose bit is clear. Muted channels
// keep time. The mask outlives song restarts.
func (u *AudioUnit) SetMusicChannelMask(mask int) { u.music.SetChannelMask(mask) }

// ChannelInstrument returns the instrument sounding on one-shot channel ch,
// or -1.
func (u *AudioUnit) ChannelInstrument(ch int) int {
	if !validChannel(ch) {
		return -1
	}
	if v := u.channels[ch]; v != nil && v.Alive() {
		return v.Index()
	}
	return -1
}

// MusicPattern returns the playing pattern, or -1.
func (u *AudioUnit) MusicPattern() int { return u.music.Pattern() }

// MusicPlaying reports whether the song is running.
func (u *AudioUnit) MusicPlaying() bool { return u.music.Playing() }

func validChannel(ch int) bool {
	return ch >= 0 && ch < NumChannels
}
