// Package effectchain runs a fixed, ordered chain of voice effects behind a
// single Engine.
//
// The chain is built once from a Registry (DefaultRegistry by default) and
// never changes shape afterwards. Presets from a Catalog decide which effects
// are active and with which parameters; effects a preset does not mention
// are bypassed. After the chain, the engine applies a volume in [0, 2] and
// hard-clips the result to [-1, 1].
//
// Control calls (SetPreset, SetVolume, SetEffectParameters and friends) may
// come from any goroutine. ProcessBuffer belongs to the audio goroutine and
// does not allocate, lock or log.
package effectchain
