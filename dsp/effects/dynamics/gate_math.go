//go:build !fastmath

package dynamics

import "math"

// fallCoeff returns the one-pole decay factor for a time constant of ms.
func fallCoeff(ms float64, sampleRate float64) float64 {
	return math.Exp(-1 / (ms * 0.001 * sampleRate))
}

// dbToGain converts a threshold in dB to linear amplitude.
func dbToGain(db float64) float64 {
	return math.Pow(10, db/20)
}
