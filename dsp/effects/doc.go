// Package effects defines the Effect contract shared by every stage of the
// voice chain and provides the non-dynamics effects.
//
// Subpackages:
//   - github.com/cwbudde/voicefx/dsp/effects/dynamics
//
// Effects in this package:
//   - Echo: Fixed 300 ms feedback echo with dry/wet mix.
//   - Equalizer: Low shelf, peaking mid and high shelf biquads.
//   - RingModulator: Sine-carrier ring modulation for robotic voices.
//
// Every effect processes interleaved float32 buffers in place. Parameters
// are published as immutable snapshots, so Process never blocks on a
// control-path writer and never allocates.
package effects
