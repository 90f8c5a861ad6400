package design_test

import (
	"fmt"

	"github.com/cwbudde/voicefx/dsp/filter/design"
)

func ExamplePeak() {
	c := design.Peak(1000, 6, 1, 48000)
	fmt.Printf("1000 Hz: %.2f dB\n", c.MagnitudeDB(1000, 48000))
	fmt.Printf("20 Hz:   %.2f dB\n", c.MagnitudeDB(20, 48000))
	// Output:
	// 1000 Hz: 6.00 dB
	// 20 Hz:   0.00 dB
}
