package veil

import (
	"github.com/veilcrypt/veil-go/pkg/veil/capsule"
	"github.com/veilcrypt/veil-go/pkg/veil/path"
)

// Type aliases for convenience. They allow callers to work entirely against
// the veil package without importing the subpackages directly.

// Path is an alias for path.Path.
type Path = path.Path

// BlockType is an alias for capsule.BlockType.
type BlockType = capsule.BlockType

// Re-exported constants.
const (
	PathTrue  = path.True
	PathFalse = path.False

	Sequential = capsule.Sequential
	Interleave = capsule.Interleave
)
