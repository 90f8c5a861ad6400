package effects

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/voicefx/dsp/buffer"
)

// RingModParams configures a RingModulator.
type RingModParams struct {
	CarrierHz float64 // [1, 5000]
	Mix       float64 // [0, 1]
}

// RingModParamSet lists the RingModulator parameters and their ranges.
var RingModParamSet = ParamSet[RingModParams]{
	{Param{"carrierHz", 1, 5000, 60}, func(p *RingModParams) *float64 { return &p.CarrierHz }},
	{Param{"mix", 0, 1, 1}, func(p *RingModParams) *float64 { return &p.Mix }},
}

// RingModulator multiplies the voice by a sine carrier, producing the sum
// and difference tones behind the classic robot voice.
//
//	wet = input * sin(phase)
//	output = input * (1 - mix) + wet * mix
//
// All channels of a frame share one carrier phase.
type RingModulator struct {
	*Base

	params *Snapshot[RingModParams]
	state  atomic.Pointer[ringModState]
}

type ringModState struct {
	channels   int
	sampleRate float64
	phase      float64
}

// NewRingModulator returns an unprepared RingModulator with default
// parameters.
func NewRingModulator() *RingModulator {
	return &RingModulator{
		Base:   NewBase("ringmod"),
		params: NewSnapshot(RingModParamSet.Defaults()),
	}
}

// Prepare starts the carrier at phase zero for the format.
func (r *RingModulator) Prepare(sampleRate, channels int) error {
	if err := ValidateFormat(r.Name(), sampleRate, channels); err != nil {
		return err
	}
	r.state.Store(&ringModState{channels: channels, sampleRate: float64(sampleRate)})
	return nil
}

// Reset rewinds the carrier phase.
func (r *RingModulator) Reset() {
	if st := r.state.Load(); st != nil {
		st.phase = 0
	}
}

// Process modulates buf in place.
func (r *RingModulator) Process(buf *buffer.Buffer) {
	if buf == nil || r.Bypassed() {
		return
	}
	st := r.state.Load()
	if st == nil || st.channels != buf.Channels() {
		return
	}
	p := r.params.Load()
	inc := 2 * math.Pi * p.CarrierHz / st.sampleRate
	dry, wet := 1-p.Mix, p.Mix

	samples := buf.Samples()
	phase := st.phase
	for f := 0; f+st.channels <= len(samples); f += st.channels {
		carrier := math.Sin(phase)
		for i := f; i < f+st.channels; i++ {
			in := float64(samples[i])
			samples[i] = float32(in*dry + in*carrier*wet)
		}
		phase += inc
		if phase >= 2*math.Pi {
			phase -= 2 * math.Pi
		}
	}
	st.phase = phase
}

// SetParameters merges carrierHz and mix.
func (r *RingModulator) SetParameters(values map[string]float64) {
	r.params.Update(func(p RingModParams) RingModParams {
		return RingModParamSet.Apply(p, values)
	})
}

// StageParameters builds a carrier and mix snapshot for Commit.
func (r *RingModulator) StageParameters(values map[string]float64) Staged {
	return RingModParamSet.Stage(values)
}

// Commit publishes a snapshot from StageParameters.
func (r *RingModulator) Commit(s Staged) {
	if sv, ok := s.(*StagedValue[RingModParams]); ok {
		r.params.Commit(sv.Value())
	}
}

// Parameters returns the current snapshot.
func (r *RingModulator) Parameters() map[string]float64 {
	return RingModParamSet.Map(*r.params.Load())
}

// DefaultParameters returns the defaults.
func (r *RingModulator) DefaultParameters() map[string]float64 {
	return RingModParamSet.Map(RingModParamSet.Defaults())
}
