package lfo

import (
	"math"
	"testing"
)

func TestLFOSineBasicShape(t *testing.T) {
	l := &LFO{}
	l.Set(1.0, 1.0)

	sr := 100.0
	samples := make([]float64, 100)
	for i := range samples {
		samples[i] = l.Sample(sr)
	}

	if math.Abs(samples[0]) > 1e-9 {
		t.Errorf("sine at phase 0: got %f, want 0", samples[0])
	}
	if math.Abs(samples[25]-1.0) > 0.01 {
		t.Errorf("sine at phase 0.25: got %f, want 1.0", samples[25])
	}
	if math.Abs(samples[75]+1.0) > 0.01 {
		t.Errorf("sine at phase 0.75: got %f, want -1.0", samples[75])
	}
}

func TestLFODepthScales(t *testing.T) {
	l := &LFO{}
	l.Set(2.5, 1.0)
	peak := 0.0
	for i := 0; i < 100; i++ {
		peak = math.Max(peak, math.Abs(l.Sample(100)))
	}
	if math.Abs(peak-2.5) > 0.01 {
		t.Errorf("peak = %f, want 2.5", peak)
	}
}

func TestLFOSkipMatchesSampling(t *testing.T) {
	a := &LFO{}
	b := &LFO{}
	a.Set(1.0, 8.0)
	b.Set(1.0, 8.0)
	for i := 0; i < 1234; i++ {
		a.Sample(48000)
	}
	b.Skip(1234, 48000)
	va, vb := a.Sample(48000), b.Sample(48000)
	if math.Abs(va-vb) > 1e-6 {
		t.Fatalf("skip diverged from sampling: %f vs %f", va, vb)
	}
}

func TestLFOZeroDepthOrRateReturnsZero(t *testing.T) {
	cases := []struct {
		name         string
		depth, rate float64
	}{
		{"zero depth", 0, 5},
		{"zero rate", 1, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := &LFO{}
			l.Set(tc.depth, tc.rate)
			for i := 0; i < 10; i++ {
				if v := l.Sample(44100); v != 0 {
					t.Fatalf("sample %d = %f, want 0", i, v)
				}
			}
		})
	}
}
