// Package delay provides a fixed-size circular delay line for float32 samples.
package delay

import "fmt"

// Line is a circular delay line.
//
// The sample under the write cursor is the oldest one held, delayed by exactly
// Len() writes, so a feedback effect reads it with Tap before overwriting it
// with Write.
type Line struct {
	buffer   []float32
	writePos int
}

// New returns a zeroed delay line of fixed size.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}
	return &Line{buffer: make([]float32, size)}, nil
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Tap returns the oldest sample, the one the next Write will replace.
func (d *Line) Tap() float32 {
	return d.buffer[d.writePos]
}

// Write stores one sample at the cursor and advances it.
func (d *Line) Write(sample float32) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Reset clears line state without reallocating.
func (d *Line) Reset() {
	clear(d.buffer)
	d.writePos = 0
}
