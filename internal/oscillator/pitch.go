package oscillator

import "math"

// NumPitches is the size of the chromatic range addressable by a note.
const NumPitches = 64

// baseHz is the frequency of pitch 0 (C2). Pitch 33 lands on A4 = 440 Hz.
const baseHz = 65.40639132514966

// Frequencies maps every pitch index to its equal-tempered frequency.
var Frequencies [NumPitches]float64

// NoiseReferenceHz is the frequency of the highest pitch; the noise generator
// is fully decorrelated at this pitch.
var NoiseReferenceHz float64

func init() {
	for i := range Frequencies {
		Frequencies[i] = PitchToFreq(float64(i))
	}
	NoiseReferenceHz = Frequencies[NumPitches-1]
}

// PitchToFreq converts a (possibly fractional) pitch index to Hz.
func PitchToFreq(pitch float64) float64 {
	return baseHz * math.Pow(2, pitch/12)
}
