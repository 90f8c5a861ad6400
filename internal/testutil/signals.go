// Package testutil provides deterministic interleaved test signals and
// tolerance helpers shared by package tests.
package testutil

import (
	"math"
	"math/rand"
)

// Sine returns frames of an interleaved sine wave with the same value on
// every channel.
func Sine(freqHz, sampleRate, amplitude float64, frames, channels int) []float32 {
	return Tone(freqHz, sampleRate, amplitude, 0, frames, channels)
}

// Tone is Sine with a starting phase in radians. A phase of pi/2 yields a
// cosine whose first frame is already at full amplitude.
func Tone(freqHz, sampleRate, amplitude, phase float64, frames, channels int) []float32 {
	out := make([]float32, frames*channels)
	step := 2 * math.Pi * freqHz / sampleRate
	for f := range frames {
		v := float32(amplitude * math.Sin(phase+step*float64(f)))
		for ch := range channels {
			out[f*channels+ch] = v
		}
	}
	return out
}

// Noise returns seeded white noise in [-amplitude, amplitude].
func Noise(seed int64, amplitude float64, length int) []float32 {
	out := make([]float32, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = float32((rng.Float64()*2 - 1) * amplitude)
	}
	return out
}

// Impulse returns a unit impulse at the given sample index.
func Impulse(length, pos int) []float32 {
	out := make([]float32, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC returns a constant-valued signal.
func DC(value float32, length int) []float32 {
	out := make([]float32, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Channel extracts one channel of an interleaved signal.
func Channel(samples []float32, channels, ch int) []float32 {
	if channels <= 0 || ch < 0 || ch >= channels {
		return nil
	}
	out := make([]float32, 0, len(samples)/channels)
	for i := ch; i < len(samples); i += channels {
		out = append(out, samples[i])
	}
	return out
}

// Peak returns the largest magnitude in samples.
func Peak(samples []float32) float64 {
	var peak float64
	for _, v := range samples {
		peak = math.Max(peak, math.Abs(float64(v)))
	}
	return peak
}
