// Package capsule implements the state-capsule wire format: two payloads
// serialized into one interleaved, shuffled, entropy-padded byte blob that
// can be reassembled per logical path.
//
// # Wire format
//
//	offset 0  : 4 bytes  marker = CA B0 0D CA
//	offset 4  : 4 bytes  version (LE u32) = 1
//	offset 8  : 4 bytes  block type (LE u32): 1=sequential, 2=interleave
//	offset 12 : 4 bytes  entropy block size (LE u32)
//	offset 16 : 4 bytes  flags (LE u32)
//	offset 20 : 32 bytes HMAC-SHA256 signature of everything after the header
//	offset 52 : [16 bytes shuffle seed, present iff FlagShuffled]
//	          : payload
//
// The payload carries a 32-byte per-path signature and a block run for each
// path. Every encoded block occupies exactly 4+blockSize bytes: a little-
// endian u32 with the original data length, the data, and deterministic
// padding up to the block size. Each run is preceded by a u32 block count so
// that decoding is self-contained.
//
//	sequential: [trueSig][trueCount][trueBlocks...][falseSig][falseCount][falseBlocks...]
//	interleave: [trueSig][falseSig][trueCount][falseCount][blocks alternating true,false,...]
//
// With FlagShuffled set, the payload bytes are permuted by a Fisher-Yates
// shuffle driven by the serialized seed; decode derives the same permutation
// from the seed and inverts it.
//
// # Failure policy
//
// Only structural problems are fatal: a short buffer, a wrong marker, or an
// unsupported version reject with ErrInvalidCapsule. A payload signature
// mismatch is logged and decoding continues; a block whose declared length
// is impossible stops reassembly and yields the bytes recovered so far. The
// scheme must never let a tampered capsule, a wrong key, and a legitimate
// decoy read produce distinguishable failure modes.
package capsule
