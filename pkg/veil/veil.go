package veil

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/veilcrypt/veil-go/pkg/veil/capsule"
	"github.com/veilcrypt/veil-go/pkg/veil/engine"
	"github.com/veilcrypt/veil-go/pkg/veil/kdf"
	"github.com/veilcrypt/veil-go/pkg/veil/path"
)

// SaltSize is the length of salts produced by NewSalt.
const SaltSize = 16

// NewSalt draws a fresh public salt from the OS RNG.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("veil: read salt: %w", err)
	}
	return salt, nil
}

// SealParams describes one capsule to seal.
type SealParams struct {
	// TrueKey protects TrueData; FalseKey protects FalseData. The two
	// secrets are independent: handing an adversary FalseKey reveals
	// only the decoy.
	TrueKey  []byte
	FalseKey []byte

	// Salt is public per-capsule material. It is not stored in the
	// capsule; the caller must keep it alongside (see cmd/veil for a
	// file container that does).
	Salt []byte

	// TrueData and FalseData are the two plaintexts. Either may be empty.
	TrueData  []byte
	FalseData []byte

	// Config tunes the composition. The zero value selects defaults.
	Config Config
}

// SealResult contains the sealed capsule.
type SealResult struct {
	Capsule []byte
}

// OpenParams describes one recovery attempt.
type OpenParams struct {
	// Key is the secret being tried. Whether it resolves to the true or
	// the decoy payload is not reported.
	Key []byte

	// Salt is the public salt the capsule was sealed with.
	Salt []byte

	// Capsule is the sealed blob.
	Capsule []byte

	// Config must match the sealing configuration for StateCount and
	// Steps; the remaining fields are read from the capsule itself.
	Config Config
}

// OpenResult contains the recovered plaintext.
type OpenResult struct {
	Data []byte
}

// Seal encrypts both payloads and packs them into a single capsule.
func Seal(ctx context.Context, params *SealParams) (*SealResult, error) {
	if params == nil {
		return nil, errorf("Seal", "nil params")
	}
	if len(params.Salt) == 0 {
		return nil, errorf("Seal", "%w: empty salt", ErrInvalidParameter)
	}
	cfg := params.Config.withDefaults()

	trueCT, err := sealPath(params.TrueKey, params.Salt, path.True, params.TrueData, cfg)
	if err != nil {
		return nil, &Error{Op: "Seal", Err: err}
	}
	falseCT, err := sealPath(params.FalseKey, params.Salt, path.False, params.FalseData, cfg)
	if err != nil {
		return nil, &Error{Op: "Seal", Err: err}
	}

	blob, err := capsule.Encode(ctx, &capsule.EncodeParams{
		TrueData:  trueCT,
		FalseData: falseCT,
		BlockType: cfg.BlockType,
		BlockSize: cfg.BlockSize,
		Shuffle:   cfg.Shuffle,
	})
	if err != nil {
		return nil, &Error{Op: "Seal", Err: err}
	}
	return &SealResult{Capsule: blob}, nil
}

// Open tries to recover a payload with the supplied key. Both logical paths
// are attempted; the first one that authenticates wins. Every failure mode
// collapses into ErrOpenFailed.
func Open(ctx context.Context, params *OpenParams) (*OpenResult, error) {
	if params == nil {
		return nil, errorf("Open", "nil params")
	}
	if len(params.Salt) == 0 {
		return nil, errorf("Open", "%w: empty salt", ErrInvalidParameter)
	}
	cfg := params.Config.withDefaults()

	// Engine construction rejects weak keys loudly: that check guards the
	// caller's own input, not the capsule, so it may be specific.
	if err := engine.ValidateKey(params.Key); err != nil {
		return nil, &Error{Op: "Open", Err: err}
	}

	for _, p := range []path.Path{path.True, path.False} {
		dec, err := capsule.Decode(ctx, params.Capsule, p, &capsule.DecodeOptions{Logger: cfg.Logger})
		if err != nil {
			// Structural problems do not depend on the key or path;
			// surfacing them leaks nothing.
			return nil, &Error{Op: "Open", Err: err}
		}
		if dec.Partial {
			continue
		}

		key, nonce, err := deriveCipherParams(params.Key, params.Salt, p, cfg)
		if err != nil {
			return nil, &Error{Op: "Open", Err: err}
		}
		plaintext, err := cfg.Cipher.Open(key, nonce, params.Salt, dec.Data)
		ZeroizeBytes(key)
		if err == nil {
			return &OpenResult{Data: plaintext}, nil
		}
	}
	return nil, ErrOpenFailed
}

func sealPath(key, salt []byte, p path.Path, plaintext []byte, cfg Config) ([]byte, error) {
	ck, nonce, err := deriveCipherParams(key, salt, p, cfg)
	if err != nil {
		return nil, err
	}
	defer ZeroizeBytes(ck)
	return cfg.Cipher.Seal(ck, nonce, salt, plaintext)
}

// deriveCipherParams runs the engine's deterministic walk for (key, salt,
// path) and expands the execution signature into cipher key and nonce.
func deriveCipherParams(key, salt []byte, p path.Path, cfg Config) (ck, nonce []byte, err error) {
	eng, err := engine.New(key, salt, p, &engine.Options{StateCount: cfg.StateCount})
	if err != nil {
		return nil, nil, err
	}
	sig, err := eng.DeriveSignature(cfg.Steps)
	if err != nil {
		return nil, nil, err
	}
	defer ZeroizeBytes(sig)

	material, err := kdf.Expand(sig, "veil/cipher/"+p.Label(),
		cfg.Cipher.KeySize()+cfg.Cipher.NonceSize())
	if err != nil {
		return nil, nil, err
	}
	return material[:cfg.Cipher.KeySize()], material[cfg.Cipher.KeySize():], nil
}
