package spectrum

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/voicefx/dsp/core"
)

// MinSize is the smallest FFT Analyze will run.
const MinSize = 64

// ErrTooShort is returned when fewer than MinSize samples are supplied.
var ErrTooShort = errors.New("spectrum: signal too short")

// Spectrum is the one-sided amplitude spectrum of a Hann-windowed block.
// Amplitude[k] estimates the peak amplitude of a sinusoid centred on bin k.
type Spectrum struct {
	SampleRate float64
	Size       int
	Amplitude  []float64
}

// Analyze transforms the last power-of-two run of samples, so leading
// filter transients fall outside the window when the input is long enough.
func Analyze(samples []float32, sampleRate float64) (*Spectrum, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("spectrum: sample rate must be > 0: %f", sampleRate)
	}
	n := floorPowerOf2(len(samples))
	if n < MinSize {
		return nil, fmt.Errorf("%w: %d samples, need %d", ErrTooShort, len(samples), MinSize)
	}
	tail := samples[len(samples)-n:]

	block := make([]float64, n)
	for i, v := range tail {
		block[i] = float64(v)
	}
	win := hann(n)
	vecmath.MulBlockInPlace(block, win)

	in := make([]complex128, n)
	for i, v := range block {
		in[i] = complex(v, 0)
	}
	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("spectrum: plan %d: %w", n, err)
	}
	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("spectrum: forward: %w", err)
	}

	bins := n/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := range bins {
		re[k] = real(out[k])
		im[k] = imag(out[k])
	}
	amp := make([]float64, bins)
	vecmath.Magnitude(amp, re, im)

	var winSum float64
	for _, w := range win {
		winSum += w
	}
	vecmath.ScaleBlock(amp, amp, 2/winSum)

	return &Spectrum{SampleRate: sampleRate, Size: n, Amplitude: amp}, nil
}

// BinHz returns the bin spacing in Hz.
func (s *Spectrum) BinHz() float64 {
	return s.SampleRate / float64(s.Size)
}

// Level returns the largest amplitude within two bins of freq. The
// neighbourhood absorbs the Hann main lobe for tones between bins.
func (s *Spectrum) Level(freq float64) float64 {
	center := int(math.Round(freq / s.BinHz()))
	var peak float64
	for k := center - 2; k <= center+2; k++ {
		if k < 0 || k >= len(s.Amplitude) {
			continue
		}
		peak = math.Max(peak, s.Amplitude[k])
	}
	return peak
}

// LevelDB is Level in dB relative to full scale. Silence yields -Inf.
func (s *Spectrum) LevelDB(freq float64) float64 {
	return core.LinearToDB(s.Level(freq))
}

// PeakFrequency returns the centre frequency of the loudest non-DC bin.
func (s *Spectrum) PeakFrequency() float64 {
	best := 1
	for k := 2; k < len(s.Amplitude); k++ {
		if s.Amplitude[k] > s.Amplitude[best] {
			best = k
		}
	}
	return float64(best) * s.BinHz()
}

// GainDB measures how much out differs from in at freq, in dB. Window
// scalloping cancels because both signals go through the same analysis.
func GainDB(in, out []float32, freq, sampleRate float64) (float64, error) {
	a, err := Analyze(in, sampleRate)
	if err != nil {
		return 0, err
	}
	b, err := Analyze(out, sampleRate)
	if err != nil {
		return 0, err
	}
	return b.LevelDB(freq) - a.LevelDB(freq), nil
}

func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}

func floorPowerOf2(n int) int {
	if n < 1 {
		return 0
	}
	p := 1
	for p*2 <= n {
		p *= 2
	}
	return p
}
