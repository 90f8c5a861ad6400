// Command voicefx runs the voice-effects engine on raw PCM streams.
//
// Usage:
//
//	voicefx [global flags] command [flags]
//
// Audio is interleaved little-endian signed 16-bit PCM. Settings come from
// VOICEFX_* environment variables (optionally loaded from a .env file) and
// can be overridden by flags.
//
// Examples:
//
//	voicefx presets
//	arecord -f S16_LE -r 48000 -c 1 | voicefx -preset robot render | aplay -f S16_LE -r 48000 -c 1
//	voicefx -preset megaphone analyze -from 100 -to 8000
//	voicefx -preset stadium monitor < voice.raw
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newApp(os.Stdin, os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "voicefx:", err)
		os.Exit(1)
	}
}
