package oscillator

import (
	"math"
	"math/rand"
)

// Waveform selects one of the eight fixed generator shapes.
type Waveform uint8

const (
	Triangle Waveform = iota
	TiltedSaw
	Saw
	Square
	Pulse
	Organ
	Noise
	Phaser

	NumWaveforms = 8
)

var waveformNames = [NumWaveforms]string{
	"triangle", "tilted-saw", "saw", "square", "pulse", "organ", "noise", "phaser",
}

// WaveformFrom wraps any id into the 0-7 range.
func WaveformFrom(id int) Waveform {
	return Waveform(id & (NumWaveforms - 1))
}

func (w Waveform) String() string {
	if int(w) < NumWaveforms {
		return waveformNames[w]
	}
	return "invalid"
}

// phaseWrap is the period after which every shape, including the phaser's
// 127/128 partial, repeats exactly.
const phaseWrap = 128.0

// Oscillator is a phase accumulator with private noise state. It must not be
// shared between voices.
type Oscillator struct {
	sampleRate float64
	phase      float64 // in cycles, [0, phaseWrap)
	rng        *rand.Rand
	lastNoise  float64
}

// New returns an oscillator for the given sample rate. The seed makes the noise
// generator deterministic.
func New(sampleRate int, seed int64) *Oscillator {
	return &Oscillator{
		sampleRate: float64(sampleRate),
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// Phase returns the current phase in cycles.
func (o *Oscillator) Phase() float64 { return o.phase }

// Sample advances the phase by freq/sampleRate and returns the waveform value.
func (o *Oscillator) Sample(w Waveform, freq float64) float64 {
	if freq < 0 {
		freq = 0
	}
	dt := freq / o.sampleRate
	o.phase += dt
	if o.phase >= phaseWrap {
		o.phase = math.Mod(o.phase, phaseWrap)
	}
	t := o.phase - math.Floor(o.phase)

	switch WaveformFrom(int(w)) {
	case Triangle:
		return (math.Abs(2*t-1)*2 - 1) * 0.7
	case TiltedSaw:
		var v float64
		if t < 0.875 {
			v = t * 16 / 7
		} else {
			v = (1 - t) * 16
		}
		return (v - 1) * 0.7
	case Saw:
		return 2 * (t - math.Floor(t+0.5)) * 0.6
	case Square:
		if math.Sin(2*math.Pi*t) >= 0 {
			return 0.5
		}
		return -0.5
	case Pulse:
		if t < 0.3125 {
			return 0.5
		}
		return -0.5
	case Organ:
		return (tri(4*t) + tri(2*t)/2 - 0.1) * 0.7
	case Noise:
		return o.noise(freq)
	default: // Phaser
		x := 2 * o.phase
		return (tri(x) + tri(x*127/128)/2) * 0.9
	}
}

// noise blends the previous value with a fresh random value. Higher pitches
// weight the new value more, so low notes rumble and high notes hiss.
func (o *Oscillator) noise(freq float64) float64 {
	scale := freq / NoiseReferenceHz
	r := o.rng.Float64()*2 - 1
	s := (o.lastNoise + scale*r) / (1 + scale)
	s = clamp(s, -1, 1)
	o.lastNoise = s
	return s * 0.7
}

// tri is a unit triangle with period 2 and range [-0.5, 0.5].
func tri(x float64) float64 {
	return math.Abs(math.Mod(x, 2)-1) - 0.5
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
