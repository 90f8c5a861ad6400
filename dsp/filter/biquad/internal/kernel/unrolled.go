//go:build (amd64 || arm64) && !purego

package kernel

import (
	"github.com/cwbudde/voicefx/dsp/core"
	"github.com/cwbudde/voicefx/internal/cpu"
)

func init() {
	Global.Register(Entry{
		Name:      "unrolled-sse2",
		SIMDLevel: cpu.SIMDSSE2,
		Priority:  10,
		Process:   processUnrolled,
	})
	Global.Register(Entry{
		Name:      "unrolled-neon",
		SIMDLevel: cpu.SIMDNEON,
		Priority:  10,
		Process:   processUnrolled,
	})
}

// processUnrolled handles two samples per iteration so the feedback chain
// stays in registers across the pair.
func processUnrolled(c Coefficients, s *State, buf []float32, start, stride int) {
	if start < 0 || stride <= 0 {
		return
	}
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2
	x1, x2, y1, y2 := s.X1, s.X2, s.Y1, s.Y2

	i := start
	n := len(buf)
	for ; i+stride < n; i += 2 * stride {
		xa := float64(buf[i])
		ya := b0*xa + b1*x1 + b2*x2 - a1*y1 - a2*y2

		xb := float64(buf[i+stride])
		yb := b0*xb + b1*xa + b2*x1 - a1*ya - a2*y1

		buf[i] = float32(ya)
		buf[i+stride] = float32(yb)

		x2, x1 = xa, xb
		y2, y1 = ya, yb
	}

	if i < n {
		x := float64(buf[i])
		y := b0*x + b1*x1 + b2*x2 - a1*y1 - a2*y2
		x2, x1 = x1, x
		y2, y1 = y1, y
		buf[i] = float32(y)
	}

	s.X1, s.X2 = x1, x2
	s.Y1, s.Y2 = core.FlushDenormals(y1), core.FlushDenormals(y2)
}
