package buffer

import (
	"errors"
	"fmt"
)

// ErrShape is returned when a sample slice does not match a buffer shape.
var ErrShape = errors.New("buffer: invalid shape")

// Buffer is an interleaved block of float32 samples in [-1, 1].
//
// The length of the sample slice always equals Frames()*Channels().
type Buffer struct {
	sampleRate int
	channels   int
	frames     int
	samples    []float32
}

// New returns a zero-filled Buffer holding frames*channels samples.
// Negative dimensions are treated as zero.
func New(sampleRate, channels, frames int) *Buffer {
	if channels < 0 {
		channels = 0
	}

	if frames < 0 {
		frames = 0
	}

	return &Buffer{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		samples:    make([]float32, frames*channels),
	}
}

// FromSamples wraps an existing interleaved slice without copying.
// Mutations to the slice are visible through the Buffer and vice versa.
func FromSamples(sampleRate, channels int, samples []float32) (*Buffer, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: channels must be > 0: %d", ErrShape, channels)
	}

	if len(samples)%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples is not a multiple of %d channels",
			ErrShape, len(samples), channels)
	}

	return &Buffer{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     len(samples) / channels,
		samples:    samples,
	}, nil
}

// SampleRate returns the sample rate in Hz.
func (b *Buffer) SampleRate() int { return b.sampleRate }

// Channels returns the number of interleaved channels.
func (b *Buffer) Channels() int { return b.channels }

// Frames returns the number of frames.
func (b *Buffer) Frames() int { return b.frames }

// Len returns the number of samples (Frames()*Channels()).
func (b *Buffer) Len() int { return len(b.samples) }

// Samples returns the underlying interleaved slice.
func (b *Buffer) Samples() []float32 { return b.samples }

// Clear zero-fills the samples without reallocating.
func (b *Buffer) Clear() {
	clear(b.samples)
}

// View returns a Buffer addressing frames [offset, offset+length) of b.
// The view shares storage with b. ok is false when the range does not fit.
func (b *Buffer) View(offset, length int) (view Buffer, ok bool) {
	if offset < 0 || length < 0 || offset+length > b.frames {
		return Buffer{}, false
	}

	start := offset * b.channels
	end := start + length*b.channels

	return Buffer{
		sampleRate: b.sampleRate,
		channels:   b.channels,
		frames:     length,
		samples:    b.samples[start:end:end],
	}, true
}

// CopyFrom copies src into the buffer and returns the number of samples copied.
func (b *Buffer) CopyFrom(src []float32) int {
	return copy(b.samples, src)
}

// DecodePCM fills the buffer from little-endian signed 16-bit PCM and returns
// the number of whole frames decoded. Samples past the decoded frames are
// zeroed so a short read never leaves stale audio behind.
func (b *Buffer) DecodePCM(pcm []byte) int {
	n := Int16ToFloat(pcm, b.samples, b.frames, b.channels)
	clear(b.samples[n:])

	if b.channels == 0 {
		return 0
	}

	return n / b.channels
}

// EncodePCM writes the buffer as little-endian signed 16-bit PCM into dst and
// returns the number of bytes written.
func (b *Buffer) EncodePCM(dst []byte) int {
	return 2 * FloatToInt16(b.samples, dst, b.frames, b.channels)
}

// reshape changes the buffer shape, reusing capacity when possible.
func (b *Buffer) reshape(sampleRate, channels, frames int) {
	n := frames * channels
	if cap(b.samples) >= n {
		b.samples = b.samples[:n]
	} else {
		b.samples = make([]float32, n)
	}

	b.sampleRate = sampleRate
	b.channels = channels
	b.frames = frames
}
