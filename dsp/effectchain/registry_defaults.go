package effectchain

import (
	"github.com/cwbudde/voicefx/dsp/effects"
	"github.com/cwbudde/voicefx/dsp/effects/dynamics"
)

// DefaultRegistry returns the built-in voice chain:
// gate -> equalizer -> ringmod -> echo -> limiter.
//
// The gate sees the raw voice so its threshold is independent of EQ boosts,
// and the limiter runs last as the safety clip.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister("gate", func() effects.Effect { return dynamics.NewGate() })
	r.MustRegister("equalizer", func() effects.Effect { return effects.NewEqualizer() })
	r.MustRegister("ringmod", func() effects.Effect { return effects.NewRingModulator() })
	r.MustRegister("echo", func() effects.Effect { return effects.NewEcho() })
	r.MustRegister("limiter", func() effects.Effect { return dynamics.NewLimiter() })

	return r
}
