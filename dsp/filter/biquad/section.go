package biquad

import (
	"math"
	"sync"

	"github.com/cwbudde/voicefx/dsp/filter/biquad/internal/kernel"
	"github.com/cwbudde/voicefx/internal/cpu"
)

// Coefficients holds the transfer function of one biquad with a0
// normalized to 1:
//
//	y = B0*x + B1*x1 + B2*x2 - A1*y1 - A2*y2
type Coefficients struct {
	B0, B1, B2 float64 // feedforward
	A1, A2     float64 // feedback
}

// Identity returns the pass-through section.
func Identity() Coefficients {
	return Coefficients{B0: 1}
}

// IsFinite reports whether every coefficient is a finite number.
func (c Coefficients) IsFinite() bool {
	for _, v := range [...]float64{c.B0, c.B1, c.B2, c.A1, c.A2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// State is the Direct Form I memory of one channel: the last two inputs
// and the last two outputs.
type State = kernel.State

// Section is a single-channel biquad with coefficients and memory.
type Section struct {
	Coefficients
	State
}

// NewSection returns a Section with the given coefficients and zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one sample.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.B1*s.X1 + s.B2*s.X2 - s.A1*s.Y1 - s.A2*s.Y2
	s.X2, s.X1 = s.X1, x
	s.Y2, s.Y1 = s.Y1, y
	return y
}

// ProcessBlock filters buf in place. It does not allocate.
func (s *Section) ProcessBlock(buf []float32) {
	processBlock(s.Coefficients, &s.State, buf, 0, 1)
}

// Reset clears the filter memory without touching the coefficients.
func (s *Section) Reset() {
	s.State = State{}
}

// ProcessInterleaved filters an interleaved buffer in place, using
// states[ch] as the memory of channel ch. Channels beyond len(states) are
// left untouched.
func ProcessInterleaved(c Coefficients, states []State, buf []float32, channels int) {
	if channels <= 0 {
		return
	}
	n := min(channels, len(states))
	for ch := range n {
		processBlock(c, &states[ch], buf, ch, channels)
	}
}

var (
	processImpl     kernel.ProcessFn
	processInitOnce sync.Once
)

func processBlock(c Coefficients, s *State, buf []float32, start, stride int) {
	processInitOnce.Do(initKernel)

	processImpl(kernel.Coefficients(c), s, buf, start, stride)
}

func initKernel() {
	entry := kernel.Global.Lookup(cpu.DetectFeatures())
	if entry == nil || entry.Process == nil {
		panic("biquad: no process kernel registered")
	}
	processImpl = entry.Process
}

// KernelName reports which block kernel this process selected.
func KernelName() string {
	entry := kernel.Global.Lookup(cpu.DetectFeatures())
	if entry == nil {
		return ""
	}
	return entry.Name
}
