package dynamics

import (
	"sync/atomic"

	"github.com/cwbudde/voicefx/dsp/buffer"
	"github.com/cwbudde/voicefx/dsp/core"
	"github.com/cwbudde/voicefx/dsp/effects"
)

// LimiterParams configures a Limiter.
type LimiterParams struct {
	CeilingDb float64 // [-60, 0]

	ceiling float32
}

// LimiterParamSet lists the Limiter parameters and their ranges.
var LimiterParamSet = effects.ParamSet[LimiterParams]{
	{Param: effects.Param{Name: "ceilingDb", Min: -60, Max: 0, Default: -1}, Field: func(p *LimiterParams) *float64 { return &p.CeilingDb }},
}

// Limiter is a static hard clip at a ceiling. It is a safety stage that
// keeps the chain output bounded, not a transparent loudness limiter: it has
// no envelope, lookahead or release.
type Limiter struct {
	*effects.Base

	params   *effects.Snapshot[LimiterParams]
	channels atomic.Int64
}

// NewLimiter returns an unprepared Limiter at the default ceiling.
func NewLimiter() *Limiter {
	return &Limiter{
		Base:   effects.NewBase("limiter"),
		params: effects.NewSnapshot(withCeiling(LimiterParamSet.Defaults())),
	}
}

// Prepare records the channel layout. The limiter keeps no other state.
func (l *Limiter) Prepare(sampleRate, channels int) error {
	if err := effects.ValidateFormat(l.Name(), sampleRate, channels); err != nil {
		return err
	}
	l.channels.Store(int64(channels))
	return nil
}

// Reset is a no-op.
func (l *Limiter) Reset() {}

// Process clips every sample of buf to [-ceiling, +ceiling]. NaN samples
// become 0.
func (l *Limiter) Process(buf *buffer.Buffer) {
	if buf == nil || l.Bypassed() {
		return
	}
	if ch := l.channels.Load(); ch == 0 || int(ch) != buf.Channels() {
		return
	}
	ceiling := l.params.Load().ceiling

	samples := buf.Samples()
	for i, x := range samples {
		samples[i] = core.ClampSample(x, ceiling)
	}
}

// SetParameters merges ceilingDb.
func (l *Limiter) SetParameters(values map[string]float64) {
	l.params.Update(func(p LimiterParams) LimiterParams {
		return withCeiling(LimiterParamSet.Apply(p, values))
	})
}

// StageParameters builds a ceiling snapshot for Commit.
func (l *Limiter) StageParameters(values map[string]float64) effects.Staged {
	v := withCeiling(LimiterParamSet.Apply(LimiterParamSet.Defaults(), values))
	return effects.NewStaged(v, LimiterParamSet.Map(v))
}

// Commit publishes a snapshot from StageParameters.
func (l *Limiter) Commit(s effects.Staged) {
	if sv, ok := s.(*effects.StagedValue[LimiterParams]); ok {
		l.params.Commit(sv.Value())
	}
}

// Parameters returns the current snapshot.
func (l *Limiter) Parameters() map[string]float64 {
	return LimiterParamSet.Map(*l.params.Load())
}

// DefaultParameters returns the defaults.
func (l *Limiter) DefaultParameters() map[string]float64 {
	return LimiterParamSet.Map(LimiterParamSet.Defaults())
}

// Ceiling returns the linear ceiling in use.
func (l *Limiter) Ceiling() float32 {
	return l.params.Load().ceiling
}

func withCeiling(p LimiterParams) LimiterParams {
	p.ceiling = float32(core.DBToLinear(p.CeilingDb))
	return p
}
