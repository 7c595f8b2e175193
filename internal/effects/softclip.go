package effects

import (
	"math"
	"sync/atomic"
)

// SoftClip bounds x to (-1, 1) with tanh waveshaping.
func SoftClip(x float32) float32 {
	return float32(math.Tanh(float64(x)))
}

// SoftClipBuffer applies SoftClip to every sample of buf.
func SoftClipBuffer(buf []float32) {
	for i, x := range buf {
		buf[i] = SoftClip(x)
	}
}

// Gain scales the signal by a runtime-adjustable factor.
// The factor is stored bit-cast for lock-free reads from the audio thread.
type Gain struct {
	g atomic.Uint32
}

func NewGain(g float32) *Gain {
	e := &Gain{}
	e.Set(g)
	return e
}

// Set changes the factor. Negative values are treated as 0.
func (e *Gain) Set(g float32) {
	if g < 0 {
		g = 0
	}
	e.g.Store(math.Float32bits(g))
}

func (e *Gain) Value() float32 {
	return math.Float32frombits(e.g.Load())
}

func (e *Gain) Process(x float32) float32 {
	return x * e.Value()
}

func (e *Gain) Reset() {}
