// Package kdf provides the key-derivation collaborators consumed by the
// top-level API.
//
// Two derivation surfaces exist:
//
//   - Password stretching: PBKDF2-HMAC-SHA256 or Argon2id turn a password
//     and salt into engine key material.
//   - Expansion: HKDF-SHA256 expansion turns a 32-byte execution signature
//     into AEAD key and nonce material with an ASCII info label for domain
//     separation.
//
// The engine treats both as opaque: it hands over secrets and labels and
// receives bytes. Parameters (iteration counts, Argon2 costs) are fixed
// constants here so that every capsule written by one version of the
// library derives identically.
package kdf
