package kernel

import (
	"github.com/cwbudde/voicefx/dsp/core"
	"github.com/cwbudde/voicefx/internal/cpu"
)

func init() {
	Global.Register(Entry{
		Name:      "generic",
		SIMDLevel: cpu.SIMDNone,
		Priority:  0,
		Process:   processGeneric,
	})
}

func processGeneric(c Coefficients, s *State, buf []float32, start, stride int) {
	if start < 0 || stride <= 0 {
		return
	}
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2
	x1, x2, y1, y2 := s.X1, s.X2, s.Y1, s.Y2

	for i := start; i < len(buf); i += stride {
		x := float64(buf[i])
		y := b0*x + b1*x1 + b2*x2 - a1*y1 - a2*y2
		x2, x1 = x1, x
		y2, y1 = y1, y
		buf[i] = float32(y)
	}

	s.X1, s.X2 = x1, x2
	s.Y1, s.Y2 = core.FlushDenormals(y1), core.FlushDenormals(y2)
}
