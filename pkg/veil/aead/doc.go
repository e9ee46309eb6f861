// Package aead defines the authenticated-encryption interface the top-level
// API seals payloads with.
//
// The capsule machinery treats the cipher as an opaque collaborator with the
// contract Seal(key, nonce, aad, plaintext) / Open(key, nonce, aad,
// ciphertext); implementations live in subpackages (see aead/gcm for
// AES-256-GCM). The interface-first split mirrors how alternative ciphers
// can be plugged in without touching the capsule or engine code.
//
// Open failures surface as ErrAuthentication regardless of cause. Callers
// composing deniable reads must collapse that into their own generic error:
// distinguishing "tampered" from "wrong key" is exactly the signal this
// scheme must not leak.
package aead
