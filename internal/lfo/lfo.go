package lfo

import "math"

// LFO is a sine low-frequency oscillator that produces per-sample
// modulation. Each note owns its own LFO so vibrato always starts at phase
// zero.
type LFO struct {
	depth  float64 // modulation depth (units depend on context)
	rateHz float64
	phase  float64 // current phase [0, 1)
}

// Set configures the LFO parameters.
func (l *LFO) Set(depth, rateHz float64) {
	l.depth = depth
	l.rateHz = rateHz
}

// Sample advances the LFO by one sample and returns a value in [-depth, +depth].
// Returns 0 if depth or rate is zero.
func (l *LFO) Sample(sampleRate float64) float64 {
	if l.depth == 0 || l.rateHz == 0 || sampleRate == 0 {
		return 0
	}
	v := math.Sin(2 * math.Pi * l.phase)
	l.phase += l.rateHz / sampleRate
	for l.phase >= 1.0 {
		l.phase -= 1.0
	}
	return v * l.depth
}

// Skip advances the phase by n samples without producing output.
func (l *LFO) Skip(n int, sampleRate float64) {
	if l.rateHz == 0 || sampleRate == 0 || n <= 0 {
		return
	}
	l.phase += float64(n) * l.rateHz / sampleRate
	l.phase -= math.Floor(l.phase)
}
