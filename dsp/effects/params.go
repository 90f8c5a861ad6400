package effects

import (
	"math"

	"github.com/cwbudde/voicefx/dsp/core"
)

// Param describes one named, clamped parameter.
type Param struct {
	Name     string
	Min, Max float64
	Default  float64
}

// Clamp limits v to [Min, Max].
func (p Param) Clamp(v float64) float64 {
	return core.Clamp(v, p.Min, p.Max)
}

// Binding ties a Param to a float64 field of a parameter struct.
type Binding[T any] struct {
	Param
	Field func(*T) *float64
}

// ParamSet maps a parameter struct to and from string-keyed values.
type ParamSet[T any] []Binding[T]

// Defaults returns a T with every bound field at its default.
func (ps ParamSet[T]) Defaults() T {
	var v T
	for _, b := range ps {
		*b.Field(&v) = b.Default
	}
	return v
}

// Apply returns cur with recognized keys from values clamped into place.
// Unknown keys and NaN or infinite values are skipped.
func (ps ParamSet[T]) Apply(cur T, values map[string]float64) T {
	for _, b := range ps {
		v, ok := values[b.Name]
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		*b.Field(&cur) = b.Clamp(v)
	}
	return cur
}

// Stage applies values to the defaults and wraps the result for Commit.
func (ps ParamSet[T]) Stage(values map[string]float64) *StagedValue[T] {
	v := ps.Apply(ps.Defaults(), values)
	return NewStaged(v, ps.Map(v))
}

// Map renders v as string-keyed values.
func (ps ParamSet[T]) Map(v T) map[string]float64 {
	out := make(map[string]float64, len(ps))
	for _, b := range ps {
		out[b.Name] = *b.Field(&v)
	}
	return out
}

// Lookup returns the Param registered under name.
func (ps ParamSet[T]) Lookup(name string) (Param, bool) {
	for _, b := range ps {
		if b.Name == name {
			return b.Param, true
		}
	}
	return Param{}, false
}
