package spectrum_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/voicefx/measure/spectrum"
)

func ExampleAnalyze() {
	const sr = 8000.0
	x := make([]float32, 1024)
	for i := range x {
		x[i] = float32(0.5 * math.Sin(2*math.Pi*1000*float64(i)/sr))
	}
	s, err := spectrum.Analyze(x, sr)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("peak=%.0f Hz level=%.1f dB\n", s.PeakFrequency(), s.LevelDB(1000))
	// Output:
	// peak=1000 Hz level=-6.0 dB
}
