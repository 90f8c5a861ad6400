//go:build fastmath

package dynamics

import (
	"math"

	"github.com/meko-christian/algo-approx"
)

// fallCoeff returns the one-pole decay factor for a time constant of ms.
func fallCoeff(ms float64, sampleRate float64) float64 {
	return approx.FastExp(-1 / (ms * 0.001 * sampleRate))
}

// dbToGain converts a threshold in dB to linear amplitude via e^(db*ln10/20).
func dbToGain(db float64) float64 {
	return approx.FastExp(db * math.Ln10 / 20)
}
