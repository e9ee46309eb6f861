// Package engine implements the probabilistic execution engine: a keyed walk
// over a state matrix whose draws are progressively biased toward
// path-dependent terminal behavior.
//
// # Two-phase draws
//
// A walk moves through two phases, modeled explicitly by Phase:
//
//	PhaseExploring:  draws are raw OS randomness. Early path segments are
//	                 statistically indistinguishable from a pure random walk.
//	PhaseConverging: draws blend raw randomness with a deterministic bias
//	                 value derived by HMAC from (state, step, path). The
//	                 blend weight ramps linearly from zero to the
//	                 controller's bias strength over the remaining steps.
//
// The crossover point is the convergence threshold, itself derived from
// (key, salt, path). The result: individual paths differ run to run, but
// their terminal behavior clusters by target path. That clustering is the
// trapdoor property the capsule scheme is built on.
//
// # Signatures
//
// A completed walk is summarized as a 32-byte HMAC execution signature over
// the visited states and the controller parameters. RunExecution walks with
// true randomness and therefore produces non-reproducible signatures;
// DeriveSignature replaces the raw draws with deterministic keyed draws so
// that the signature becomes a pure function of (key, salt, path, steps),
// suitable as key-derivation seed material.
//
// # Weak keys
//
// Engine construction rejects keys shorter than 16 bytes, single-byte keys,
// and a small denylist of degenerate prefixes with ErrWeakKey. These are
// sanity checks, not cryptographic guarantees.
package engine
