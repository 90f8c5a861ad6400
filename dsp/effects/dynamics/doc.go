// Package dynamics provides the level-dependent stages of the voice chain.
//
// Included processors:
//   - Gate: Peak-envelope noise gate with attack, hold and release.
//   - Limiter: Brick-wall clip at a ceiling in dBFS.
package dynamics
