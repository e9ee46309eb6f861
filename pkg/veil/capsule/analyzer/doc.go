// Package analyzer scores how well a capsule resists statistical
// discrimination.
//
// The analysis is read-only and key-free: it sees exactly what an observer
// without any key sees. Three families of statistics feed a composite 0-10
// resistance score:
//
//   - Shannon entropy of the post-header bytes, globally and per
//     entropy-block window (low per-block variance means no region stands
//     out).
//   - Chi-square distance of the byte histogram from uniform.
//   - Similarity between adjacent block windows, blending a positional
//     byte-match ratio with a digest byte-match ratio.
//
// Scores of 8 and above are reported as "high" resistance, 5 and above
// "medium", anything lower "low". The analyzer exists to validate and tune
// block size and shuffle parameters, not to certify security.
package analyzer
