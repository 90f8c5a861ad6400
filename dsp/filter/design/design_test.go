package design

import (
	"math"
	"testing"

	"github.com/cwbudde/voicefx/dsp/filter/biquad"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestEQDesigners_BasicBehavior(t *testing.T) {
	t.Parallel()

	sr := 48000.0

	peakUp := Peak(1000, 6, 1, sr)
	peakDown := Peak(1000, -6, 1, sr)
	if !(peakUp.MagnitudeDB(1000, sr) > 5.9 && peakDown.MagnitudeDB(1000, sr) < -5.9) {
		t.Fatal("peak filter gain check failed")
	}

	ls := LowShelf(500, 6, defaultQ, sr)
	if !(ls.MagnitudeDB(30, sr) > 5.5 && almostEqual(ls.MagnitudeDB(15000, sr), 0, 0.1)) {
		t.Fatalf("low shelf: 30 Hz=%.2f dB, 15 kHz=%.2f dB", ls.MagnitudeDB(30, sr), ls.MagnitudeDB(15000, sr))
	}

	hs := HighShelf(4000, 6, defaultQ, sr)
	if !(hs.MagnitudeDB(20000, sr) > 5.5 && almostEqual(hs.MagnitudeDB(50, sr), 0, 0.1)) {
		t.Fatalf("high shelf: 20 kHz=%.2f dB, 50 Hz=%.2f dB", hs.MagnitudeDB(20000, sr), hs.MagnitudeDB(50, sr))
	}
}

func TestZeroGainIsFlat(t *testing.T) {
	t.Parallel()

	sr := 44100.0
	designs := map[string]biquad.Coefficients{
		"lowshelf":  LowShelf(120, 0, 0.707, sr),
		"peak":      Peak(1000, 0, 1, sr),
		"highshelf": HighShelf(6000, 0, 0.707, sr),
	}
	for name, c := range designs {
		for _, f := range []float64{20, 100, 1000, 5000, 15000, 21000} {
			if db := c.MagnitudeDB(f, sr); !almostEqual(db, 0, 1e-9) {
				t.Errorf("%s at %v Hz = %v dB, want 0", name, f, db)
			}
		}
	}
}

func TestDegenerateInputsYieldIdentity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		c    biquad.Coefficients
	}{
		{"zero rate", Peak(1000, 6, 1, 0)},
		{"negative rate", LowShelf(100, 6, 1, -48000)},
		{"nan rate", HighShelf(100, 6, 1, math.NaN())},
		{"nan gain", Peak(1000, math.NaN(), 1, 48000)},
		{"inf gain", LowShelf(1000, math.Inf(1), 1, 48000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.c != biquad.Identity() {
				t.Fatalf("got %+v, want identity", tt.c)
			}
		})
	}
}

func TestOutOfRangeFrequencyIsClamped(t *testing.T) {
	t.Parallel()

	sr := 8000.0
	high := Peak(20000, 6, 1, sr)
	want := Peak(MaxNyquistRatio*sr, 6, 1, sr)
	if high != want {
		t.Fatalf("above-Nyquist design = %+v, want %+v", high, want)
	}
	if !high.IsFinite() {
		t.Fatal("clamped design not finite")
	}

	low := LowShelf(-5, 6, 1, sr)
	if low != LowShelf(MinFrequency, 6, 1, sr) {
		t.Fatal("negative frequency not clamped to MinFrequency")
	}
}

func TestBadQFallsBackToDefault(t *testing.T) {
	t.Parallel()

	want := Peak(1000, 3, defaultQ, 48000)
	for _, q := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if got := Peak(1000, 3, q, 48000); got != want {
			t.Errorf("q=%v: got %+v, want %+v", q, got, want)
		}
	}
}

func TestDesignsAreStable(t *testing.T) {
	t.Parallel()

	for _, sr := range []float64{8000, 44100, 48000, 96000} {
		for _, g := range []float64{-24, -12, 0, 12, 24} {
			for _, q := range []float64{0.1, 0.707, 1, 10} {
				for _, c := range []biquad.Coefficients{
					LowShelf(120, g, q, sr),
					Peak(1000, g, q, sr),
					HighShelf(6000, g, q, sr),
				} {
					// Poles inside the unit circle: |a2| < 1 and |a1| < 1 + a2.
					if !(math.Abs(c.A2) < 1 && math.Abs(c.A1) < 1+c.A2) {
						t.Fatalf("unstable design sr=%v g=%v q=%v: %+v", sr, g, q, c)
					}
				}
			}
		}
	}
}

func TestClampFrequency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		freq, sr, want float64
	}{
		{1000, 48000, 1000},
		{5, 48000, MinFrequency},
		{30000, 48000, 23520},
		{math.NaN(), 48000, MinFrequency},
	}
	for _, tt := range tests {
		if got := ClampFrequency(tt.freq, tt.sr); !almostEqual(got, tt.want, 1e-9) {
			t.Errorf("ClampFrequency(%v, %v) = %v, want %v", tt.freq, tt.sr, got, tt.want)
		}
	}
}
