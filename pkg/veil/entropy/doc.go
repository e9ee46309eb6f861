// Package entropy provides an explicit, constructor-injected source of
// deterministic randomness.
//
// A Source is seeded once and then expands the seed into an arbitrarily long
// byte stream via an HMAC-SHA256 counter construction. Components that need
// reproducible randomness (capsule padding, the payload shuffle permutation)
// receive a Source by value injection; there is no package-level generator
// and no shared mutable state between sources.
//
// # Determinism
//
// Two sources built from the same seed produce identical streams. The capsule
// wire format depends on this: the shuffle permutation applied on encode is
// reconstructed on decode purely from the serialized seed.
//
// # Security
//
// A Source is NOT a cryptographically secure RNG for key material. Seeds are
// public once serialized into a capsule; the stream only decorrelates bytes,
// it does not hide them. Derive keys from the engine's execution signature
// instead.
package entropy
