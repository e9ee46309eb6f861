// Package draws implements the labeled HMAC-SHA256 draw primitive shared by
// the state-matrix generator and the probability engine.
//
// # Design Principles
//
// 1. Purity: a draw is a pure function of (key, salt, label). No generator
//    state is kept between calls, so any draw can be reproduced in isolation.
//
// 2. Domain separation: the label is a unique ASCII string per draw
//    (e.g. "transition_prob_3_7"). Two draws never share a label, so no two
//    draws are correlated beyond what HMAC provides.
//
// 3. Range mapping: the digest is interpreted as an 8-byte big-endian
//    integer normalized to [0,1), then affine-scaled to the needed range.
//    All scaling happens here so callers cannot disagree on rounding.
package draws
