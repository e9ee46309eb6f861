package draws

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"math"
)

// Bytes returns the HMAC-SHA256 digest of label||salt under key.
// Every keyed draw in the library funnels through here so that a draw is a
// pure function of (key, salt, label) with no stored intermediate state.
func Bytes(key, salt []byte, label string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(label))
	mac.Write(salt)
	return mac.Sum(nil)
}

// Float maps a draw to the half-open interval [0,1). The first eight digest
// bytes are read as a big-endian integer and divided by 2^64.
func Float(key, salt []byte, label string) float64 {
	digest := Bytes(key, salt, label)
	u := binary.BigEndian.Uint64(digest[:8])
	return float64(u) / (1 << 64)
}

// FloatBetween affine-scales a draw into [lo, hi).
func FloatBetween(key, salt []byte, label string, lo, hi float64) float64 {
	return lo + Float(key, salt, label)*(hi-lo)
}

// IntBetween maps a draw onto the inclusive integer range [lo, hi] by
// rounding the scaled value. lo > hi is treated as an empty range and
// collapses to lo.
func IntBetween(key, salt []byte, label string, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	v := lo + int(math.Round(Float(key, salt, label)*float64(hi-lo)))
	if v > hi {
		v = hi
	}
	return v
}

// Index maps a draw onto [0, n). Used for pick-without-replacement loops
// where the candidate pool shrinks between draws.
func Index(key, salt []byte, label string, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(Float(key, salt, label) * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
