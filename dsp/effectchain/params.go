package effectchain

import (
	"maps"
	"math"
)

// Params is the observable configuration of one chain effect.
type Params struct {
	ID       string
	Bypassed bool
	Num      map[string]float64
}

// GetNum safely extracts a numeric parameter, returning def if missing or invalid.
func (p Params) GetNum(key string, def float64) float64 {
	if p.Num == nil {
		return def
	}

	v, ok := p.Num[key]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}

	return v
}

// State is a deep copy of everything a control surface can observe.
type State struct {
	Preset  string
	Volume  float64
	Effects []Params
}

// Effect returns the entry for id.
func (s State) Effect(id string) (Params, bool) {
	for _, p := range s.Effects {
		if p.ID == id {
			return p, true
		}
	}
	return Params{}, false
}

func overlay(base, top map[string]float64) map[string]float64 {
	out := maps.Clone(base)
	if out == nil {
		out = make(map[string]float64, len(top))
	}
	maps.Copy(out, top)
	return out
}
