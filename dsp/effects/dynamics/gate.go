package dynamics

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/voicefx/dsp/buffer"
	"github.com/cwbudde/voicefx/dsp/core"
	"github.com/cwbudde/voicefx/dsp/effects"
)

// envelopeFallMs is the decay time constant of the level detector.
const envelopeFallMs = 20.0

// GateParams configures a Gate.
type GateParams struct {
	ThresholdDb float64 // [-96, 0]
	AttackMs    float64 // [0.1, 500]
	ReleaseMs   float64 // [1, 5000]
	HoldMs      float64 // [0, 2000]
}

// GateParamSet lists the Gate parameters and their ranges.
var GateParamSet = effects.ParamSet[GateParams]{
	{Param: effects.Param{Name: "thresholdDb", Min: -96, Max: 0, Default: -45}, Field: func(p *GateParams) *float64 { return &p.ThresholdDb }},
	{Param: effects.Param{Name: "attackMs", Min: 0.1, Max: 500, Default: 5}, Field: func(p *GateParams) *float64 { return &p.AttackMs }},
	{Param: effects.Param{Name: "releaseMs", Min: 1, Max: 5000, Default: 80}, Field: func(p *GateParams) *float64 { return &p.ReleaseMs }},
	{Param: effects.Param{Name: "holdMs", Min: 0, Max: 2000, Default: 40}, Field: func(p *GateParams) *float64 { return &p.HoldMs }},
}

// GateState is the phase of the gate state machine.
type GateState int32

const (
	GateClosed GateState = iota
	GateOpening
	GateOpen
	GateClosing
)

func (s GateState) String() string {
	switch s {
	case GateClosed:
		return "closed"
	case GateOpening:
		return "opening"
	case GateOpen:
		return "open"
	case GateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// Gate is a noise gate driven by a frame-linked peak envelope.
//
// The detector takes the largest magnitude across the channels of a frame,
// rises instantly and falls exponentially with a 20 ms time constant. One
// gain is applied to every channel of the frame.
//
//	Open     level < threshold -> Closing
//	Closing  hold for holdMs, then ramp to 0 over releaseMs -> Closed;
//	         level >= threshold -> Opening from the current gain
//	Closed   level >= threshold -> Opening
//	Opening  ramp to 1 over attackMs -> Open
//
// Ramps are linear, so the gain never jumps. A fresh or reset gate is
// Closed.
type Gate struct {
	*effects.Base

	params *effects.Snapshot[GateParams]
	state  atomic.Pointer[gateState]

	meterGain  atomic.Uint64
	meterState atomic.Int32
}

type gateState struct {
	channels   int
	sampleRate float64
	fall       float64

	env      float64
	gain     float64
	phase    GateState
	holdLeft int
}

// NewGate returns an unprepared Gate with default parameters.
func NewGate() *Gate {
	return &Gate{
		Base:   effects.NewBase("gate"),
		params: effects.NewSnapshot(GateParamSet.Defaults()),
	}
}

// Prepare builds a closed gate for the format.
func (g *Gate) Prepare(sampleRate, channels int) error {
	if err := effects.ValidateFormat(g.Name(), sampleRate, channels); err != nil {
		return err
	}
	sr := float64(sampleRate)
	g.state.Store(&gateState{
		channels:   channels,
		sampleRate: sr,
		fall:       fallCoeff(envelopeFallMs, sr),
	})
	g.publishMeter(0, GateClosed)
	return nil
}

// Reset closes the gate and clears the envelope.
func (g *Gate) Reset() {
	st := g.state.Load()
	if st == nil {
		return
	}
	st.env, st.gain, st.phase, st.holdLeft = 0, 0, GateClosed, 0
	g.publishMeter(0, GateClosed)
}

// Process applies the gate to buf in place.
func (g *Gate) Process(buf *buffer.Buffer) {
	if buf == nil || g.Bypassed() {
		return
	}
	st := g.state.Load()
	if st == nil || st.channels != buf.Channels() {
		return
	}
	p := g.params.Load()

	threshold := dbToGain(p.ThresholdDb)
	attackStep := 1 / math.Max(1, p.AttackMs*0.001*st.sampleRate)
	releaseStep := 1 / math.Max(1, p.ReleaseMs*0.001*st.sampleRate)
	holdFrames := core.MsToSamples(p.HoldMs, int(st.sampleRate))

	env, gain, phase, holdLeft := st.env, st.gain, st.phase, st.holdLeft
	samples := buf.Samples()
	for f := 0; f+st.channels <= len(samples); f += st.channels {
		frame := samples[f : f+st.channels]

		var peak float64
		for _, x := range frame {
			peak = math.Max(peak, math.Abs(float64(x)))
		}
		if peak >= env {
			env = peak
		} else {
			env = peak + (env-peak)*st.fall
		}
		above := env >= threshold

		switch phase {
		case GateOpen:
			if !above {
				phase = GateClosing
				holdLeft = holdFrames
			}
		case GateClosing:
			if above {
				phase = GateOpening
			}
		case GateClosed:
			if above {
				phase = GateOpening
			}
		}

		switch phase {
		case GateOpening:
			gain += attackStep
			if gain >= 1-1e-9 {
				gain = 1
				phase = GateOpen
			}
		case GateClosing:
			if holdLeft > 0 {
				holdLeft--
				break
			}
			gain -= releaseStep
			if gain <= 1e-9 {
				gain = 0
				phase = GateClosed
			}
		}

		g32 := float32(gain)
		for i := range frame {
			frame[i] *= g32
		}
	}

	st.env = env
	st.gain = gain
	st.phase = phase
	st.holdLeft = holdLeft
	g.publishMeter(gain, phase)
}

// SetParameters merges threshold and timing values.
func (g *Gate) SetParameters(values map[string]float64) {
	g.params.Update(func(p GateParams) GateParams {
		return GateParamSet.Apply(p, values)
	})
}

// StageParameters builds a threshold and timing snapshot for Commit.
func (g *Gate) StageParameters(values map[string]float64) effects.Staged {
	return GateParamSet.Stage(values)
}

// Commit publishes a snapshot from StageParameters.
func (g *Gate) Commit(s effects.Staged) {
	if sv, ok := s.(*effects.StagedValue[GateParams]); ok {
		g.params.Commit(sv.Value())
	}
}

// Parameters returns the current snapshot.
func (g *Gate) Parameters() map[string]float64 {
	return GateParamSet.Map(*g.params.Load())
}

// DefaultParameters returns the defaults.
func (g *Gate) DefaultParameters() map[string]float64 {
	return GateParamSet.Map(GateParamSet.Defaults())
}

// Gain returns the gain at the end of the last processed block.
func (g *Gate) Gain() float64 {
	return math.Float64frombits(g.meterGain.Load())
}

// State returns the state at the end of the last processed block.
func (g *Gate) State() GateState {
	return GateState(g.meterState.Load())
}

func (g *Gate) publishMeter(gain float64, phase GateState) {
	g.meterGain.Store(math.Float64bits(gain))
	g.meterState.Store(int32(phase))
}
