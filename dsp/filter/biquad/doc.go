// Package biquad provides second-order IIR filter runtime primitives for
// interleaved float32 audio.
//
// A [Section] runs Direct Form I processing for one channel. For
// interleaved multichannel buffers, keep one [State] per channel and call
// [ProcessInterleaved]; the block kernel is selected once per process from
// the CPU features reported by internal/cpu.
//
// Coefficient design (shelves, peaking bands) lives in dsp/filter/design.
package biquad
