package effects

import (
	"sync/atomic"

	"github.com/cwbudde/voicefx/dsp/buffer"
	"github.com/cwbudde/voicefx/dsp/core"
	"github.com/cwbudde/voicefx/dsp/delay"
)

// EchoDelaySeconds is the fixed echo delay.
const EchoDelaySeconds = 0.3

// EchoParams configures an Echo.
type EchoParams struct {
	Feedback float64 // [0, 0.85]
	Mix      float64 // [0, 1]
}

// EchoParamSet lists the Echo parameters and their ranges.
var EchoParamSet = ParamSet[EchoParams]{
	{Param{"feedback", 0, 0.85, 0.35}, func(p *EchoParams) *float64 { return &p.Feedback }},
	{Param{"mix", 0, 1, 0.3}, func(p *EchoParams) *float64 { return &p.Mix }},
}

// Echo is a single-tap feedback echo with a fixed 300 ms delay.
//
// The ring holds int(sampleRate*0.3) frames of interleaved samples, so each
// channel hears its own history.
type Echo struct {
	*Base

	params *Snapshot[EchoParams]
	state  atomic.Pointer[echoState]
}

type echoState struct {
	channels int
	ring     *delay.Line // nil when the ring would be empty
}

// NewEcho returns an unprepared Echo with default parameters.
func NewEcho() *Echo {
	return &Echo{
		Base:   NewBase("echo"),
		params: NewSnapshot(EchoParamSet.Defaults()),
	}
}

// Prepare allocates a zeroed ring for the format.
func (e *Echo) Prepare(sampleRate, channels int) error {
	if err := ValidateFormat(e.Name(), sampleRate, channels); err != nil {
		return err
	}

	st := &echoState{channels: channels}
	if size := int(float64(sampleRate)*EchoDelaySeconds) * channels; size > 0 {
		ring, err := delay.New(size)
		if err != nil {
			return err
		}
		st.ring = ring
	}
	e.state.Store(st)
	return nil
}

// Reset zeroes the ring and rewinds the cursor.
func (e *Echo) Reset() {
	if st := e.state.Load(); st != nil && st.ring != nil {
		st.ring.Reset()
	}
}

// Process mixes each sample with the one written a ring length earlier and
// feeds input plus scaled echo back into the ring.
func (e *Echo) Process(buf *buffer.Buffer) {
	if buf == nil || e.Bypassed() {
		return
	}
	st := e.state.Load()
	if st == nil || st.ring == nil || st.channels != buf.Channels() {
		return
	}
	p := e.params.Load()
	dry, wet, fb := 1-p.Mix, p.Mix, p.Feedback

	ring := st.ring
	samples := buf.Samples()
	for i, x := range samples {
		in := float64(x)
		delayed := float64(ring.Tap())
		ring.Write(float32(core.FlushDenormals(in + delayed*fb)))
		samples[i] = float32(in*dry + delayed*wet)
	}
}

// SetParameters merges feedback and mix.
func (e *Echo) SetParameters(values map[string]float64) {
	e.params.Update(func(p EchoParams) EchoParams {
		return EchoParamSet.Apply(p, values)
	})
}

// StageParameters builds a feedback and mix snapshot for Commit.
func (e *Echo) StageParameters(values map[string]float64) Staged {
	return EchoParamSet.Stage(values)
}

// Commit publishes a snapshot from StageParameters.
func (e *Echo) Commit(s Staged) {
	if sv, ok := s.(*StagedValue[EchoParams]); ok {
		e.params.Commit(sv.Value())
	}
}

// Parameters returns the current snapshot.
func (e *Echo) Parameters() map[string]float64 {
	return EchoParamSet.Map(*e.params.Load())
}

// DefaultParameters returns the defaults.
func (e *Echo) DefaultParameters() map[string]float64 {
	return EchoParamSet.Map(EchoParamSet.Defaults())
}

// RingSize returns the prepared ring length in samples, or 0.
func (e *Echo) RingSize() int {
	st := e.state.Load()
	if st == nil || st.ring == nil {
		return 0
	}
	return st.ring.Len()
}
