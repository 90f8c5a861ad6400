package buffer

import "encoding/binary"

const (
	int16Scale   = 32768.0
	int16Ceiling = 32767.0
)

// Int16ToFloat decodes frames*channels little-endian signed 16-bit samples from
// src into dst, mapping each value v to v/32768. The conversion stops early if
// either slice is too short and returns the number of samples written.
// It never allocates.
func Int16ToFloat(src []byte, dst []float32, frames, channels int) int {
	n := sampleCount(frames, channels, len(src)/2, len(dst))

	for i := range n {
		v := int16(binary.LittleEndian.Uint16(src[2*i:]))
		dst[i] = float32(v) / int16Scale
	}

	return n
}

// FloatToInt16 encodes frames*channels samples from src as little-endian signed
// 16-bit PCM into dst. Each sample is clamped to [-1, 1] and scaled by 32767
// with truncation toward zero, so out-of-range input never wraps. NaN encodes
// as silence. Returns the number of samples written; never allocates.
func FloatToInt16(src []float32, dst []byte, frames, channels int) int {
	n := sampleCount(frames, channels, len(src), len(dst)/2)

	for i := range n {
		x := src[i]

		switch {
		case x != x:
			x = 0
		case x > 1:
			x = 1
		case x < -1:
			x = -1
		}

		v := int16(float64(x) * int16Ceiling)
		binary.LittleEndian.PutUint16(dst[2*i:], uint16(v))
	}

	return n
}

func sampleCount(frames, channels, srcLen, dstLen int) int {
	if frames <= 0 || channels <= 0 {
		return 0
	}

	n := frames * channels
	if srcLen < n {
		n = srcLen
	}

	if dstLen < n {
		n = dstLen
	}

	return n
}
