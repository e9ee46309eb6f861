// Package veil implements plausibly deniable encryption: one capsule, two
// payloads, and no way for an observer to tell which key is the "real" one.
//
// # How a capsule is built
//
// Seal runs the probabilistic execution engine once per logical path. Each
// run derives a reproducible 32-byte execution signature from (key, salt,
// path); the signature is expanded into AEAD key and nonce material, the
// corresponding payload is sealed, and both ciphertexts are packed into a
// single capsule: block-split, entropy-padded, optionally interleaved and
// shuffled.
//
// Open walks the same derivation for both paths under the supplied key and
// returns whichever payload authenticates. All failures collapse into
// ErrOpenFailed: a wrong password, a tampered capsule, and a corrupted block
// run are deliberately indistinguishable.
//
// # What this package does NOT give you
//
//   - Deniability is statistical, not absolute. Use the capsule/analyzer
//     package to measure how well a given configuration resists
//     discrimination.
//   - The engine's weak-key checks are sanity checks, not a password
//     strength policy.
//   - Nothing here hides the fact that a capsule exists or that it uses
//     this format; the marker bytes are public.
//
// Subpackages expose the machinery individually: statemx (keyed state
// matrices), engine (biased walks and signatures), capsule (the wire
// format), capsule/analyzer (resistance scoring), kdf and aead
// (derivation and cipher collaborators).
package veil
