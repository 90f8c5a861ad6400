package effects

import (
	"sync/atomic"

	"github.com/cwbudde/voicefx/dsp/buffer"
	"github.com/cwbudde/voicefx/dsp/filter/biquad"
	"github.com/cwbudde/voicefx/dsp/filter/design"
)

// EqualizerParams configures the three tone bands.
type EqualizerParams struct {
	LowGainDb, LowFreq, LowQ    float64
	MidGainDb, MidFreq, MidQ    float64
	HighGainDb, HighFreq, HighQ float64
}

// EqualizerParamSet lists the Equalizer parameters and their ranges.
var EqualizerParamSet = ParamSet[EqualizerParams]{
	{Param{"lowGainDb", -24, 24, 0}, func(p *EqualizerParams) *float64 { return &p.LowGainDb }},
	{Param{"lowFreq", 20, 20000, 120}, func(p *EqualizerParams) *float64 { return &p.LowFreq }},
	{Param{"lowQ", 0.1, 10, 0.707}, func(p *EqualizerParams) *float64 { return &p.LowQ }},
	{Param{"midGainDb", -24, 24, 0}, func(p *EqualizerParams) *float64 { return &p.MidGainDb }},
	{Param{"midFreq", 20, 20000, 1000}, func(p *EqualizerParams) *float64 { return &p.MidFreq }},
	{Param{"midQ", 0.1, 10, 1}, func(p *EqualizerParams) *float64 { return &p.MidQ }},
	{Param{"highGainDb", -24, 24, 0}, func(p *EqualizerParams) *float64 { return &p.HighGainDb }},
	{Param{"highFreq", 20, 20000, 6000}, func(p *EqualizerParams) *float64 { return &p.HighFreq }},
	{Param{"highQ", 0.1, 10, 0.707}, func(p *EqualizerParams) *float64 { return &p.HighQ }},
}

const numBands = 3

// Equalizer is a low shelf, a peaking band and a high shelf in series.
type Equalizer struct {
	*Base

	params atomic.Pointer[eqSnapshot]
	writer *Snapshot[EqualizerParams]
	rate   atomic.Int64
	state  atomic.Pointer[eqState]
}

type eqSnapshot struct {
	params EqualizerParams
	coeffs [numBands]biquad.Coefficients
}

type eqState struct {
	channels int
	bands    [numBands][]biquad.State
}

// NewEqualizer returns an unprepared, flat Equalizer.
func NewEqualizer() *Equalizer {
	eq := &Equalizer{
		Base:   NewBase("equalizer"),
		writer: NewSnapshot(EqualizerParamSet.Defaults()),
	}
	eq.publish(*eq.writer.Load())
	return eq
}

// Prepare resizes the per-channel filter memory and redesigns the bands
// for the new sample rate.
func (eq *Equalizer) Prepare(sampleRate, channels int) error {
	if err := ValidateFormat(eq.Name(), sampleRate, channels); err != nil {
		return err
	}

	st := &eqState{channels: channels}
	for b := range st.bands {
		st.bands[b] = make([]biquad.State, channels)
	}

	eq.rate.Store(int64(sampleRate))
	eq.writer.Update(func(p EqualizerParams) EqualizerParams {
		eq.publish(p)
		return p
	})
	eq.state.Store(st)
	return nil
}

// Reset clears the filter memory of every band.
func (eq *Equalizer) Reset() {
	st := eq.state.Load()
	if st == nil {
		return
	}
	for b := range st.bands {
		clear(st.bands[b])
	}
}

// Process runs low, mid and high bands over buf in place.
func (eq *Equalizer) Process(buf *buffer.Buffer) {
	if buf == nil || eq.Bypassed() {
		return
	}
	st := eq.state.Load()
	if st == nil || st.channels != buf.Channels() {
		return
	}
	snap := eq.params.Load()

	samples := buf.Samples()
	for b := range numBands {
		biquad.ProcessInterleaved(snap.coeffs[b], st.bands[b], samples, st.channels)
	}
}

// SetParameters merges band settings and republishes the coefficients.
func (eq *Equalizer) SetParameters(values map[string]float64) {
	eq.writer.Update(func(p EqualizerParams) EqualizerParams {
		p = EqualizerParamSet.Apply(p, values)
		eq.publish(p)
		return p
	})
}

// StageParameters designs coefficients for the defaults overlaid with
// values at the prepared sample rate, for Commit.
func (eq *Equalizer) StageParameters(values map[string]float64) Staged {
	p := EqualizerParamSet.Apply(EqualizerParamSet.Defaults(), values)
	return NewStaged(*eq.design(p), EqualizerParamSet.Map(p))
}

// Commit publishes coefficients from StageParameters.
func (eq *Equalizer) Commit(s Staged) {
	sv, ok := s.(*StagedValue[eqSnapshot])
	if !ok {
		return
	}
	snap := sv.Value()
	eq.writer.Commit(&snap.params)
	eq.params.Store(snap)
}

// Parameters returns the current snapshot.
func (eq *Equalizer) Parameters() map[string]float64 {
	return EqualizerParamSet.Map(eq.params.Load().params)
}

// DefaultParameters returns the flat defaults.
func (eq *Equalizer) DefaultParameters() map[string]float64 {
	return EqualizerParamSet.Map(EqualizerParamSet.Defaults())
}

// Coefficients returns the coefficients currently in use, low to high.
func (eq *Equalizer) Coefficients() []biquad.Coefficients {
	coeffs := eq.params.Load().coeffs
	return coeffs[:]
}

// ResponseDB returns the designed gain of the three bands at freq, in dB.
// It is 0 before Prepare.
func (eq *Equalizer) ResponseDB(freq float64) float64 {
	sr := float64(eq.rate.Load())
	if sr <= 0 {
		return 0
	}
	coeffs := eq.params.Load().coeffs
	return biquad.CascadeMagnitudeDB(coeffs[:], freq, sr)
}

// publish designs coefficients for p and swaps them in. Callers hold the
// writer lock.
func (eq *Equalizer) publish(p EqualizerParams) {
	eq.params.Store(eq.design(p))
}

// design returns the coefficients for p at the current rate, or identity
// sections before Prepare.
func (eq *Equalizer) design(p EqualizerParams) *eqSnapshot {
	snap := &eqSnapshot{params: p}

	sr := float64(eq.rate.Load())
	if sr > 0 {
		snap.coeffs = [numBands]biquad.Coefficients{
			design.LowShelf(p.LowFreq, p.LowGainDb, p.LowQ, sr),
			design.Peak(p.MidFreq, p.MidGainDb, p.MidQ, sr),
			design.HighShelf(p.HighFreq, p.HighGainDb, p.HighQ, sr),
		}
	} else {
		for b := range snap.coeffs {
			snap.coeffs[b] = biquad.Identity()
		}
	}
	return snap
}
