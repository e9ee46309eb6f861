// Package statemx generates and walks keyed probabilistic state matrices.
//
// A Matrix is a set of N states, each holding a normalized outgoing
// transition-probability distribution over a small subset of the other
// states, together with two distinguished initial states, one per logical
// path. The whole structure is a pure function of (key, salt): every random
// choice made during generation is a labeled HMAC-SHA256 draw, so two calls
// with the same inputs produce identical matrices.
//
// # Invariants
//
//   - Every state's outgoing probabilities sum to 1.0 within 1e-3.
//   - A state has between 1 and min(5, N-1) successors, none of them itself.
//   - For N >= 2 the two initial states are distinct. N == 1 degenerates to
//     a single shared initial state; that is a defined policy, not an error.
//
// # Walking
//
// An Executor advances through the matrix one draw at a time. Successor
// selection is the first transition whose cumulative probability reaches the
// draw, evaluated in the canonical order the transitions were generated in.
// That ordering is part of the reproducibility contract: exact float
// boundaries must resolve identically everywhere.
package statemx
