// Package core holds small numeric helpers shared by every voicefx DSP
// package: clamping, dB conversion, and denormal flushing.
package core
