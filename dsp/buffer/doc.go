// Package buffer provides the interleaved float32 sample container that flows
// through the voicefx effect chain, together with the signed 16-bit PCM
// conversions used at the capture and playback boundary.
//
// A [Buffer] has a fixed shape (sample rate, channel count, frame count) and
// exposes its samples as a contiguous slice ordered
// [frame0_ch0, frame0_ch1, ..., frame1_ch0, ...]. Effects mutate the samples in
// place and never change the shape. [Pool] lets a capture layer reuse buffers
// across callbacks.
//
// [Int16ToFloat] and [FloatToInt16] are the only functions in the module that
// touch raw PCM bytes.
package buffer
