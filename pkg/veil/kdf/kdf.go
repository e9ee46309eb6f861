package kdf

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"
)

// DefaultIterations is the PBKDF2 iteration count. NIST recommends at least
// 10,000; VeraCrypt ships 50,000 for its PBKDF2 modes.
const DefaultIterations = 50_000

// Argon2id cost parameters, fixed for wire stability.
const (
	argon2Time    = 3
	argon2Memory  = 64 * 1024 // KiB
	argon2Threads = 4
)

// PBKDF2 stretches a password into keyLen bytes with PBKDF2-HMAC-SHA256.
func PBKDF2(password, salt []byte, iterations, keyLen int) []byte {
	return pbkdf2.Key(password, salt, iterations, keyLen, sha256.New)
}

// Argon2id stretches a password into keyLen bytes with Argon2id at the
// package's fixed cost parameters.
func Argon2id(password, salt []byte, keyLen uint32) []byte {
	return argon2.IDKey(password, salt, argon2Time, argon2Memory, argon2Threads, keyLen)
}

// Expand derives length bytes from a secret with HKDF-SHA256 expansion.
// The info label separates derivation domains; callers must never reuse a
// label across purposes.
func Expand(secret []byte, info string, length int) ([]byte, error) {
	out := make([]byte, length)
	r := hkdf.Expand(sha256.New, secret, []byte(info))
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("kdf: expand %d bytes: %w", length, err)
	}
	return out, nil
}
