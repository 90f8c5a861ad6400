package core

import "math"

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// ClampSample limits a float32 sample to [-limit, +limit].
// A NaN sample maps to 0 so that a fault never propagates downstream.
func ClampSample(x, limit float32) float32 {
	if x != x {
		return 0
	}

	if x > limit {
		return limit
	}

	if x < -limit {
		return -limit
	}

	return x
}

// Finite returns value unless it is NaN or ±Inf, in which case it returns def.
func Finite(value, def float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return def
	}

	return value
}

// FlushDenormals converts tiny denormal-like values to exact zero.
// This can reduce denormal-related CPU slowdowns in hot DSP loops.
func FlushDenormals(x float64) float64 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// MsToSamples converts a duration in milliseconds to a whole number of samples
// at sampleRate. The result is never negative.
func MsToSamples(ms float64, sampleRate int) int {
	n := int(math.Round(ms * 0.001 * float64(sampleRate)))
	if n < 0 {
		return 0
	}

	return n
}
