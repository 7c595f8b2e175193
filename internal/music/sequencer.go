package music

import "github.com/cbegin/picosynth-go/internal/sfx"

// AllChannels is the channel mask with every music channel audible.
const AllChannels = 1<<NumChannels - 1

// referenceStepBudget caps the reference voice of a pattern in which every
// channel loops, so that the pattern still ends.
const referenceStepBudget = sfx.NumSteps

type Options struct {
	// OnPatternChange receives the new pattern index on every transition and
	// -1 when playback stops on its own.
	OnPatternChange func(pattern int)
	// Seed is the first noise seed handed to channel voices.
	Seed int64
}

// Sequencer plays the song table one pattern at a time. Each pattern runs one
// voice per non-silent channel; the pattern ends when its reference voice
// dies.
type Sequencer struct {
	patterns    Table
	instruments sfx.Table
	sampleRate  int

	playing bool
	pattern int
	current Pattern
	voices  [NumChannels]*sfx.Voice
	ref     *sfx.Voice
	mask    int
	seed    int64

	onPatternChange func(int)
}

func New(patterns Table, instruments sfx.Table, sampleRate int) *Sequencer {
	return NewWithOptions(patterns, instruments, sampleRate, Options{})
}

func NewWithOptions(patterns Table, instruments sfx.Table, sampleRate int, opts Options) *Sequencer {
	return &Sequencer{
		patterns:        patterns,
		instruments:     instruments,
		sampleRate:      sampleRate,
		pattern:         -1,
		mask:            AllChannels,
		seed:            opts.Seed,
		onPatternChange: opts.OnPatternChange,
	}
}

// Start begins playback at pattern n. It reports false and leaves the
// sequencer untouched when n is out of range.
func (s *Sequencer) Start(n int) bool {
	if n < 0 || n >= NumPatterns {
		return false
	}
	s.playing = true
	s.ref = nil
	s.setUpPattern(n, 0)
	return true
}

// Stop silences every channel.
func (s *Sequencer) Stop() {
	s.playing = false
	s.pattern = -1
	s.ref = nil
	for i := range s.voices {
		s.voices[i] = nil
	}
}

// Update accumulates one buffer of music into buf. When the current pattern
// ends inside the buffer, the next one starts at the same sample and fills
// the rest of it, repeating for patterns shorter than a buffer.
func (s *Sequencer) Update(buf []float32) {
	if !s.playing {
		return
	}
	// A reference left dead by the previous pull hands over at sample 0.
	if s.ref != nil && !s.ref.Alive() && !s.advance(0) {
		return
	}
	s.updateVoices(buf)
	// Every pattern consumes samples before it ends; the cap only guards
	// degenerate sample rates.
	for i := 0; i < NumPatterns && s.ref != nil && !s.ref.Alive(); i++ {
		if !s.advance(s.ref.Cursor()) {
			return
		}
		s.updateVoices(buf)
	}
}

// advance moves to the pattern after the current one with every voice
// starting at cursor. It reports false when the song has ended.
func (s *Sequencer) advance(cursor int) bool {
	next, ok := s.nextPattern()
	if !ok {
		s.Stop()
		s.notify(-1)
		return false
	}
	s.setUpPattern(next, cursor)
	s.notify(next)
	return true
}

func (s *Sequencer) updateVoices(buf []float32) {
	for i, v := range s.voices {
		if v != nil && !v.Update(buf) {
			s.voices[i] = nil
		}
	}
}

func (s *Sequencer) nextPattern() (int, bool) {
	switch {
	case s.current.Stop:
		return 0, false
	case s.current.LoopEnd:
		for i := s.pattern; i >= 0; i-- {
			if p, _ := s.patterns.Pattern(i); p.LoopStart {
				return i, true
			}
		}
		return 0, true
	case s.pattern+1 >= NumPatterns:
		return 0, false
	}
	return s.pattern + 1, true
}

// setUpPattern replaces every channel voice with the voices of pattern n,
// all starting at cursor.
func (s *Sequencer) setUpPattern(n, cursor int) {
	p, _ := s.patterns.Pattern(n)
	s.pattern = n
	s.current = p

	allLoop := true
	for ch, c := range p.Channels {
		s.voices[ch] = nil
		if c.Silent {
			continue
		}
		inst, ok := s.instruments.Instrument(c.Instrument)
		if !ok {
			continue
		}
		s.seed++
		v := sfx.NewVoice(c.Instrument, inst, s.sampleRate, s.seed)
		v.SetActive(s.mask&(1<<ch) != 0)
		v.Start(0, sfx.NumSteps, cursor)
		s.voices[ch] = v
		if !inst.Loops() {
			allLoop = false
		}
	}

	s.ref = nil
	for _, v := range s.voices {
		if v == nil || (!allLoop && v.Instrument().Loops()) {
			continue
		}
		if s.ref == nil || v.Duration() > s.ref.Duration() {
			s.ref = v
		}
	}
	if allLoop && s.ref != nil {
		s.ref.SetStepBudget(referenceStepBudget)
	}
}

func (s *Sequencer) notify(pattern int) {
	if s.onPatternChange != nil {
		s.onPatternChange(pattern)
	}
}

// SetChannelMask selects which channels write samples. Bit i enables
// channel i; masked channels keep time.
func (s *Sequencer) SetChannelMask(mask int) {
	s.mask = mask & AllChannels
	for ch, v := range s.voices {
		if v != nil {
			v.SetActive(s.mask&(1<<ch) != 0)
		}
	}
}

// ChannelMask returns the audible channel mask.
func (s *Sequencer) ChannelMask() int { return s.mask }

// Playing reports whether a song is running.
func (s *Sequencer) Playing() bool { return s.playing }

// Pattern returns the current pattern index, or -1 when stopped.
func (s *Sequencer) Pattern() int { return s.pattern }

// Voice returns the live voice on channel ch, or nil.
func (s *Sequencer) Voice(ch int) *sfx.Voice {
	if ch < 0 || ch >= NumChannels {
		return nil
	}
	return s.voices[ch]
}

// Reference returns the voice whose end completes the current pattern.
func (s *Sequencer) Reference() *sfx.Voice { return s.ref }
