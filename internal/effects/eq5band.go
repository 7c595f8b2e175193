package effects

import (
	"math"
	"sync/atomic"
)

// NumBands is the number of EQ bands.
const NumBands = 5

// EQ5Band implements a 5-band equalizer with runtime-adjustable gains.
// Bands are split at 200Hz, 800Hz, 2.5kHz, and 8kHz.
// Gains are stored as uint32 (bit-cast float32) for lock-free reads from the audio thread.
type EQ5Band struct {
	gains  [NumBands]atomic.Uint32 // float32 bit patterns; 1.0 = unity
	alphas [4]float32              // crossover filter coefficients
	lp     [4]float32              // lowpass state per crossover
}

var defaultCrossovers = [4]float64{200, 800, 2500, 8000}

// NewEQ5Band creates a 5-band EQ with all gains at unity.
func NewEQ5Band(sampleRate int) *EQ5Band {
	eq := &EQ5Band{}
	dt := 1.0 / float64(sampleRate)
	for i, freq := range defaultCrossovers {
		rc := 1.0 / (2.0 * math.Pi * freq)
		eq.alphas[i] = float32(dt / (rc + dt))
	}
	for i := range eq.gains {
		eq.gains[i].Store(math.Float32bits(1.0))
	}
	return eq
}

// SetGain sets the gain for band (0-4). 1.0 = unity, 0.0 = silence, 2.0 = +6dB.
func (eq *EQ5Band) SetGain(band int, gain float32) {
	if band >= 0 && band < NumBands {
		eq.gains[band].Store(math.Float32bits(gain))
	}
}

// Gain returns the current gain for band (0-4).
func (eq *EQ5Band) Gain(band int) float32 {
	if band >= 0 && band < NumBands {
		return math.Float32frombits(eq.gains[band].Load())
	}
	return 1.0
}

func (eq *EQ5Band) Process(x float32) float32 {
	// Each crossover takes its lowpass share of the remainder; band 4 is what is left.
	var out float32
	rem := x
	for i := 0; i < 4; i++ {
		eq.lp[i] += eq.alphas[i] * (rem - eq.lp[i])
		rem -= eq.lp[i]
		out += eq.lp[i] * math.Float32frombits(eq.gains[i].Load())
	}
	return out + rem*math.Float32frombits(eq.gains[4].Load())
}

func (eq *EQ5Band) Reset() {
	for i := range eq.lp {
		eq.lp[i] = 0
	}
}
