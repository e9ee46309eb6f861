package aead

import "errors"

// ErrAuthentication reports that Open could not authenticate the
// ciphertext. Implementations must return exactly this error (possibly
// wrapped) for every authentication failure.
var ErrAuthentication = errors.New("aead: message authentication failed")

// Cipher is an authenticated cipher with associated data.
type Cipher interface {
	// Seal encrypts and authenticates plaintext, binding aad.
	Seal(key, nonce, aad, plaintext []byte) ([]byte, error)

	// Open authenticates and decrypts ciphertext produced by Seal with
	// the same key, nonce, and aad. Returns ErrAuthentication on any
	// verification failure.
	Open(key, nonce, aad, ciphertext []byte) ([]byte, error)

	// KeySize and NonceSize report the byte lengths Seal and Open expect.
	KeySize() int
	NonceSize() int
}
