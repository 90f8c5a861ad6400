// Package design provides RBJ-style biquad coefficient designers for the
// tone-shaping bands used by the voice equalizer: low shelf, peaking band
// and high shelf.
//
// Designers never return unstable or non-finite coefficients. Degenerate
// inputs (non-positive sample rate, NaN gain) yield [biquad.Identity].
package design
