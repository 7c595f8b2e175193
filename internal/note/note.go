package note

import (
	"github.com/cbegin/picosynth-go/internal/lfo"
	"github.com/cbegin/picosynth-go/internal/oscillator"
)

// VibratoHz is the rate of the vibrato pitch modulation.
const VibratoHz = 8.0

// Params describes one scheduled note. Times are in seconds, volume in [0, 1].
type Params struct {
	Waveform  oscillator.Waveform
	Volume    float64
	Pitch     float64
	PitchFrom float64
	Duration  float64
	FadeIn    float64
	FadeOut   float64
	Vibrato   bool
}

// Task renders a single note into a shared mix buffer, possibly across
// several buffer pulls. It is consumed once and then discarded.
type Task struct {
	Params

	osc        *oscillator.Oscillator
	sampleRate float64
	elapsed    int // samples rendered or skipped so far
	vib        lfo.LFO

	freqFrom float64
	freqTo   float64
	vibLo    float64
	vibHi    float64
}

// New binds a note to the oscillator of the voice that owns it.
func New(p Params, osc *oscillator.Oscillator, sampleRate int) *Task {
	t := &Task{
		Params:     p,
		osc:        osc,
		sampleRate: float64(sampleRate),
		freqFrom:   oscillator.PitchToFreq(p.PitchFrom),
		freqTo:     oscillator.PitchToFreq(p.Pitch),
	}
	if p.Vibrato {
		t.vibLo = oscillator.PitchToFreq(p.Pitch)
		t.vibHi = oscillator.PitchToFreq(p.Pitch + 0.5)
		t.vib.Set(1, VibratoHz)
	}
	return t
}

// Elapsed returns the note time consumed so far in seconds.
func (t *Task) Elapsed() float64 {
	return float64(t.elapsed) / t.sampleRate
}

// Done reports whether the note has played for its full duration.
func (t *Task) Done() bool {
	return t.Elapsed() >= t.Duration
}

// Render accumulates the note into buf starting at cursor and returns the
// index where it stopped: either the sample where the note ended or len(buf).
// With write disabled the note consumes time without touching buf.
func (t *Task) Render(buf []float32, cursor int, write bool) int {
	if cursor < 0 {
		cursor = 0
	}
	for i := cursor; i < len(buf); i++ {
		now := t.Elapsed()
		if now >= t.Duration {
			return i
		}
		if write {
			freq := t.frequencyAt(now)
			buf[i] += float32(t.osc.Sample(t.Waveform, freq) * t.volumeAt(now))
		} else if t.Vibrato {
			t.vib.Skip(1, t.sampleRate)
		}
		t.elapsed++
	}
	return len(buf)
}

func (t *Task) volumeAt(now float64) float64 {
	if t.FadeIn > 0 && now < t.FadeIn {
		return t.Volume * now / t.FadeIn
	}
	if t.FadeOut > 0 && now >= t.Duration-t.FadeOut {
		return t.Volume * (t.Duration - now) / t.FadeOut
	}
	return t.Volume
}

func (t *Task) frequencyAt(now float64) float64 {
	if t.Vibrato {
		m := t.vib.Sample(t.sampleRate)
		return t.vibLo + (t.vibHi-t.vibLo)*(m+1)/2
	}
	if t.freqFrom == t.freqTo {
		return t.freqTo
	}
	return t.freqFrom + (t.freqTo-t.freqFrom)*now/t.Duration
}
