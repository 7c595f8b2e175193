package oscillator

import (
	"math"
	"testing"
)

func TestWaveformRange(t *testing.T) {
	bounds := map[Waveform]float64{
		Triangle:  0.7,
		TiltedSaw: 0.7,
		Saw:       0.6,
		Square:    0.5,
		Pulse:     0.5,
		Organ:     0.7,
		Noise:     0.7,
		Phaser:    0.675,
	}
	freqs := []float64{0, 1, 65.4, 440, 2489, 11025, 30000}
	for w := Waveform(0); w < NumWaveforms; w++ {
		t.Run(w.String(), func(t *testing.T) {
			for _, f := range freqs {
				o := New(48000, 1)
				for i := 0; i < 20000; i++ {
					v := o.Sample(w, f)
					if math.IsNaN(v) || math.Abs(v) > bounds[w]+1e-9 {
						t.Fatalf("freq %.1f sample %d = %f exceeds bound %f", f, i, v, bounds[w])
					}
				}
			}
		})
	}
}

func TestPhaseAdvancesByFrequencyOverSampleRate(t *testing.T) {
	o := New(48000, 1)
	for i := 0; i < 480; i++ {
		o.Sample(Triangle, 100)
	}
	if math.Abs(o.Phase()-1.0) > 1e-9 {
		t.Fatalf("phase after 480 samples at 100Hz = %f, want 1.0", o.Phase())
	}
}

func TestPhaseWrapKeepsBounded(t *testing.T) {
	o := New(8000, 1)
	for i := 0; i < 100000; i++ {
		o.Sample(Phaser, 4000)
	}
	if p := o.Phase(); p < 0 || p >= phaseWrap {
		t.Fatalf("phase %f outside [0,%f)", p, phaseWrap)
	}
}

func TestPhaserIsCenteredAndBounded(t *testing.T) {
	// 100 samples per cycle; 128 cycles is one full period of the detuned
	// partial.
	o := New(48000, 1)
	sum, peak := 0.0, 0.0
	n := 100 * 128
	for i := 0; i < n; i++ {
		v := o.Sample(Phaser, 480)
		sum += v
		peak = math.Max(peak, math.Abs(v))
	}
	if mean := sum / float64(n); math.Abs(mean) > 0.01 {
		t.Fatalf("phaser mean = %f, want ~0", mean)
	}
	if peak > 0.675+1e-9 || peak < 0.6 {
		t.Fatalf("phaser peak = %f, want just under 0.675", peak)
	}
}

func TestSquareFollowsSineZeroCrossing(t *testing.T) {
	o := New(100, 1)
	// 1 Hz at 100 Hz sample rate: first half of the cycle is positive.
	for i := 1; i < 50; i++ {
		if v := o.Sample(Square, 1); v != 0.5 {
			t.Fatalf("sample %d = %f, want 0.5", i, v)
		}
	}
	o.Sample(Square, 1)
	for i := 51; i < 100; i++ {
		if v := o.Sample(Square, 1); v != -0.5 {
			t.Fatalf("sample %d = %f, want -0.5", i, v)
		}
	}
}

func TestPulseDuty(t *testing.T) {
	o := New(1600, 1)
	high := 0
	for i := 0; i < 1600; i++ {
		if o.Sample(Pulse, 1) > 0 {
			high++
		}
	}
	if high < 495 || high > 505 {
		t.Fatalf("pulse high for %d/1600 samples, want ~500", high)
	}
}

func TestDistinctOscillatorsDoNotShareState(t *testing.T) {
	a := New(48000, 7)
	b := New(48000, 7)
	for i := 0; i < 1000; i++ {
		a.Sample(Saw, 440)
	}
	if b.Phase() != 0 {
		t.Fatalf("advancing one oscillator moved another: phase %f", b.Phase())
	}
}

func TestNoiseSeedIsDeterministic(t *testing.T) {
	a := New(48000, 7)
	b := New(48000, 7)
	c := New(48000, 8)
	same := true
	for i := 0; i < 100; i++ {
		va, vb, vc := a.Sample(Noise, 1000), b.Sample(Noise, 1000), c.Sample(Noise, 1000)
		if va != vb {
			t.Fatalf("sample %d: equal seeds diverged: %f vs %f", i, va, vb)
		}
		if va != vc {
			same = false
		}
	}
	if same {
		t.Fatalf("different seeds produced identical noise")
	}
}

func TestNoiseIsSmootherAtLowPitch(t *testing.T) {
	roughness := func(freq float64) float64 {
		o := New(48000, 3)
		prev := o.Sample(Noise, freq)
		var sum float64
		for i := 0; i < 10000; i++ {
			v := o.Sample(Noise, freq)
			sum += math.Abs(v - prev)
			prev = v
		}
		return sum
	}
	if lo, hi := roughness(Frequencies[0]), roughness(Frequencies[63]); lo >= hi {
		t.Fatalf("expected low pitch noise to be smoother: low=%f high=%f", lo, hi)
	}
}

func TestWaveformFromWraps(t *testing.T) {
	cases := []struct {
		id   int
		want Waveform
	}{
		{0, Triangle},
		{7, Phaser},
		{8, Triangle},
		{14, Noise},
		{15, Phaser},
	}
	for _, tc := range cases {
		if got := WaveformFrom(tc.id); got != tc.want {
			t.Errorf("WaveformFrom(%d) = %v, want %v", tc.id, got, tc.want)
		}
	}
}

func TestPitchTable(t *testing.T) {
	if math.Abs(Frequencies[33]-440) > 1e-6 {
		t.Fatalf("pitch 33 = %f Hz, want 440", Frequencies[33])
	}
	for i := 1; i < NumPitches; i++ {
		if Frequencies[i] <= Frequencies[i-1] {
			t.Fatalf("pitch table not increasing at %d", i)
		}
	}
	if NoiseReferenceHz != Frequencies[63] {
		t.Fatalf("noise reference %f != pitch 63 %f", NoiseReferenceHz, Frequencies[63])
	}
}
