package entropy

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// SeedSize is the seed length used by capsule encoding.
const SeedSize = 16

const streamLabel = "veil/entropy/stream"

// Source is a deterministic byte stream expanded from a seed with an
// HMAC-SHA256 counter construction. It is not safe for concurrent use; each
// encoder or decoder owns its own Source.
type Source struct {
	seed    []byte
	counter uint64
	buf     []byte
	off     int
}

// NewSource returns a Source expanding the given seed. The seed is copied.
func NewSource(seed []byte) *Source {
	s := &Source{seed: make([]byte, len(seed))}
	copy(s.seed, seed)
	return s
}

// NewSeed draws a fresh SeedSize-byte seed from the operating system RNG.
func NewSeed() ([]byte, error) {
	seed := make([]byte, SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return seed, nil
}

func (s *Source) refill() {
	mac := hmac.New(sha256.New, s.seed)
	mac.Write([]byte(streamLabel))
	var ctr [8]byte
	binary.BigEndian.PutUint64(ctr[:], s.counter)
	mac.Write(ctr[:])
	s.buf = mac.Sum(nil)
	s.off = 0
	s.counter++
}

// Bytes returns the next n bytes of the stream.
func (s *Source) Bytes(n int) []byte {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		if s.off >= len(s.buf) {
			s.refill()
		}
		out[i] = s.buf[s.off]
		s.off++
	}
	return out
}

// Uint64 consumes eight stream bytes as a big-endian integer.
func (s *Source) Uint64() uint64 {
	return binary.BigEndian.Uint64(s.Bytes(8))
}

// Float64 returns the next stream value mapped to [0,1).
func (s *Source) Float64() float64 {
	return float64(s.Uint64()) / (1 << 64)
}

// Intn returns a stream value in [0,n). It panics if n <= 0, matching the
// contract of math/rand.Intn.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		panic("entropy: Intn called with non-positive n")
	}
	i := int(s.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Perm returns a Fisher-Yates permutation of [0,n) driven by the stream.
func (s *Source) Perm(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := s.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}

// InvertPerm returns the inverse permutation: if perm maps position i to
// perm[i], the result maps perm[i] back to i.
func InvertPerm(perm []int) []int {
	inv := make([]int, len(perm))
	for i, p := range perm {
		inv[p] = i
	}
	return inv
}
