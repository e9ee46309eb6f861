// Package gcm implements the aead.Cipher interface with AES-256-GCM.
package gcm

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/veilcrypt/veil-go/pkg/veil/aead"
)

const (
	keySize   = 32
	nonceSize = 12
)

// Cipher is a stateless AES-256-GCM implementation of aead.Cipher. The zero
// value is ready to use.
type Cipher struct{}

var _ aead.Cipher = Cipher{}

// New returns a ready Cipher.
func New() Cipher {
	return Cipher{}
}

// KeySize returns 32 (AES-256).
func (Cipher) KeySize() int { return keySize }

// NonceSize returns the standard 12-byte GCM nonce length.
func (Cipher) NonceSize() int { return nonceSize }

// Seal encrypts plaintext under key/nonce, authenticating aad.
func (c Cipher) Seal(key, nonce, aad, plaintext []byte) ([]byte, error) {
	g, err := c.gcm(key, nonce)
	if err != nil {
		return nil, err
	}
	return g.Seal(nil, nonce, plaintext, aad), nil
}

// Open decrypts and authenticates ciphertext. Every verification failure is
// reported as aead.ErrAuthentication.
func (c Cipher) Open(key, nonce, aad, ciphertext []byte) ([]byte, error) {
	g, err := c.gcm(key, nonce)
	if err != nil {
		return nil, err
	}
	plaintext, err := g.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, aead.ErrAuthentication
	}
	return plaintext, nil
}

func (Cipher) gcm(key, nonce []byte) (cipher.AEAD, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("gcm: key must be %d bytes, got %d", keySize, len(key))
	}
	if len(nonce) != nonceSize {
		return nil, fmt.Errorf("gcm: nonce must be %d bytes, got %d", nonceSize, len(nonce))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("gcm: %w", err)
	}
	return cipher.NewGCM(block)
}
