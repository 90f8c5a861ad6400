package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/voicefx/internal/testutil"
)

func TestAnalyzeSineLevel(t *testing.T) {
	t.Parallel()

	const sr = 48000.0
	x := testutil.Sine(1000, sr, 0.5, 8192, 1)
	s, err := Analyze(x, sr)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if s.Size != 8192 {
		t.Fatalf("Size = %d, want 8192", s.Size)
	}
	if got := s.LevelDB(1000); math.Abs(got-(-6.02)) > 1.5 {
		t.Fatalf("LevelDB(1000) = %.2f, want about -6.02", got)
	}
	if got := s.PeakFrequency(); math.Abs(got-1000) > s.BinHz() {
		t.Fatalf("PeakFrequency = %.1f, want 1000 ± %.1f", got, s.BinHz())
	}
	if far := s.LevelDB(10000); far > -60 {
		t.Fatalf("leakage at 10 kHz = %.1f dB", far)
	}
}

func TestAnalyzeUsesTail(t *testing.T) {
	t.Parallel()

	x := append(testutil.DC(0, 100), testutil.Sine(500, 8000, 0.25, 1024, 1)...)
	s, err := Analyze(x, 8000)
	if err != nil {
		t.Fatal(err)
	}
	if s.Size != 1024 {
		t.Fatalf("Size = %d, want 1024", s.Size)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	t.Parallel()

	if _, err := Analyze(make([]float32, 10), 48000); !errors.Is(err, ErrTooShort) {
		t.Fatalf("short input: err = %v, want ErrTooShort", err)
	}
	if _, err := Analyze(make([]float32, 1024), 0); err == nil {
		t.Fatal("zero sample rate accepted")
	}
}

func TestGainDB(t *testing.T) {
	t.Parallel()

	in := testutil.Sine(2000, 48000, 0.5, 4096, 1)
	half := make([]float32, len(in))
	for i, v := range in {
		half[i] = v / 2
	}

	same, err := GainDB(in, in, 2000, 48000)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(same) > 1e-9 {
		t.Fatalf("GainDB(x, x) = %v, want 0", same)
	}

	got, err := GainDB(in, half, 2000, 48000)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-(-6.0206)) > 0.01 {
		t.Fatalf("GainDB(x, x/2) = %.4f, want -6.02", got)
	}
}
