package veil

import (
	"github.com/veilcrypt/veil-go/pkg/veil/aead"
	"github.com/veilcrypt/veil-go/pkg/veil/aead/gcm"
	"github.com/veilcrypt/veil-go/pkg/veil/capsule"
	"github.com/veilcrypt/veil-go/pkg/veil/engine"
	"github.com/veilcrypt/veil-go/pkg/veil/logging"
	"github.com/veilcrypt/veil-go/pkg/veil/statemx"
)

// Config tunes the Seal/Open composition. Zero fields select defaults; the
// zero Config is usable.
type Config struct {
	// StateCount is the engine's matrix size.
	// Zero selects statemx.DefaultStateCount.
	StateCount int

	// Steps is the walk length feeding signature derivation.
	// Zero selects engine.DefaultSteps. Both sides of a capsule must use
	// the same value.
	Steps int

	// BlockType selects the capsule arrangement. Zero selects Sequential.
	BlockType BlockType

	// BlockSize is the capsule entropy block size.
	// Zero selects capsule.DefaultBlockSize.
	BlockSize int

	// Shuffle applies the keyed byte permutation to the capsule payload.
	Shuffle bool

	// Cipher seals and opens payloads. Nil selects AES-256-GCM.
	Cipher aead.Cipher

	// Logger receives decode integrity warnings. Nil keeps the library
	// silent.
	Logger logging.Logger
}

// DefaultConfig returns the configuration Seal and Open use when given the
// zero Config, with every knob made explicit.
func DefaultConfig() Config {
	return Config{}.withDefaults()
}

// withDefaults fills unset fields.
func (c Config) withDefaults() Config {
	if c.StateCount == 0 {
		c.StateCount = statemx.DefaultStateCount
	}
	if c.Steps == 0 {
		c.Steps = engine.DefaultSteps
	}
	if c.BlockType == 0 {
		c.BlockType = capsule.Sequential
	}
	if c.BlockSize == 0 {
		c.BlockSize = capsule.DefaultBlockSize
	}
	if c.Cipher == nil {
		c.Cipher = gcm.New()
	}
	if c.Logger == nil {
		c.Logger = logging.Nop()
	}
	return c
}
