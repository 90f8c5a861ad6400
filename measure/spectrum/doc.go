// Package spectrum measures the magnitude spectrum of rendered audio.
//
// It is an offline tool for tests and the analyze command. Nothing in here
// is real-time safe: every call allocates its FFT plan and scratch.
package spectrum
