package engine

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/veilcrypt/veil-go/internal/draws"
	"github.com/veilcrypt/veil-go/pkg/veil/path"
)

// Phase is the stage a walk is in. It is a first-class type so the
// exploration/convergence contract can be tested in isolation instead of
// living in scattered threshold comparisons.
type Phase int

const (
	// PhaseExploring returns raw randomness unchanged.
	PhaseExploring Phase = iota

	// PhaseConverging blends raw randomness with the keyed bias value.
	PhaseConverging
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseExploring:
		return "exploring"
	case PhaseConverging:
		return "converging"
	default:
		return "unknown"
	}
}

// Params holds the bias parameters derived once per controller from
// (key, salt, path).
type Params struct {
	// BiasStrength is the maximum blend weight of the bias value, reached
	// on the final step.
	BiasStrength float64

	// ConvergenceRate is bound into the execution signature alongside
	// BiasStrength.
	ConvergenceRate float64

	// NoiseLevel scales the asymmetric nudge applied in the converging
	// phase: subtracted for the true path, added for the false path.
	NoiseLevel float64

	// ConvergenceThreshold is the walk progress fraction at which the
	// converging phase begins.
	ConvergenceThreshold float64
}

// Parameter derivation ranges. The exact values matter less than their
// stability: they are part of what makes signatures key-dependent.
const (
	minBiasStrength = 0.55
	maxBiasStrength = 0.95

	minConvergenceRate = 0.05
	maxConvergenceRate = 0.20

	minNoiseLevel = 0.01
	maxNoiseLevel = 0.05

	minConvergenceThreshold = 0.50
	maxConvergenceThreshold = 0.75
)

// UniformFunc supplies the raw uniform draw in [0,1) consumed by one biased
// draw. The default reads the OS RNG; DeriveSignature injects a
// deterministic keyed source.
type UniformFunc func() float64

// Controller produces biased draws for a single walk. It carries mutable
// bookkeeping (a draw counter and a rolling XOR fold of produced values) and
// must not be shared between walks or goroutines.
type Controller struct {
	key    []byte
	salt   []byte
	target path.Path
	params Params

	uniform UniformFunc

	drawCount      uint64
	runtimeEntropy uint64
}

// NewController derives the bias parameters for (key, salt, target) and
// returns a controller drawing raw randomness from the OS RNG.
func NewController(key, salt []byte, target path.Path) (*Controller, error) {
	return newController(key, salt, target, nil)
}

func newController(key, salt []byte, target path.Path, uniform UniformFunc) (*Controller, error) {
	if len(key) == 0 || len(salt) == 0 {
		return nil, errors.New("engine: key and salt must be non-empty")
	}
	if !target.Valid() {
		return nil, ErrInvalidPath
	}
	if uniform == nil {
		uniform = secureUniform
	}
	label := target.Label()
	return &Controller{
		key:    key,
		salt:   salt,
		target: target,
		params: Params{
			BiasStrength: draws.FloatBetween(key, salt,
				"bias_strength_"+label, minBiasStrength, maxBiasStrength),
			ConvergenceRate: draws.FloatBetween(key, salt,
				"convergence_rate_"+label, minConvergenceRate, maxConvergenceRate),
			NoiseLevel: draws.FloatBetween(key, salt,
				"noise_level_"+label, minNoiseLevel, maxNoiseLevel),
			ConvergenceThreshold: draws.FloatBetween(key, salt,
				"convergence_threshold_"+label, minConvergenceThreshold, maxConvergenceThreshold),
		},
		uniform: uniform,
	}, nil
}

// Params returns the derived bias parameters.
func (c *Controller) Params() Params {
	return c.params
}

// PhaseAt reports which phase the given progress point falls in.
func (c *Controller) PhaseAt(step, totalSteps int) Phase {
	if totalSteps <= 0 {
		return PhaseExploring
	}
	if float64(step)/float64(totalSteps) <= c.params.ConvergenceThreshold {
		return PhaseExploring
	}
	return PhaseConverging
}

// BiasedDraw returns the draw for one step of a walk over totalSteps steps
// while visiting stateID. Exploring-phase draws are raw randomness;
// converging-phase draws blend in the keyed bias value with a linearly
// ramping weight, then apply the asymmetric path nudge.
func (c *Controller) BiasedDraw(step, totalSteps, stateID int) float64 {
	raw := c.uniform()
	c.drawCount++

	result := raw
	if c.PhaseAt(step, totalSteps) == PhaseConverging {
		progress := float64(step) / float64(totalSteps)
		thr := c.params.ConvergenceThreshold

		bias := draws.Float(c.key, c.salt,
			fmt.Sprintf("bias_value_%d_%d_%s", stateID, step, c.target.Label()))
		effective := c.params.BiasStrength * (progress - thr) / (1 - thr)
		result = raw*(1-effective) + bias*effective

		// The nudge direction is what distinguishes the two target
		// semantics once the blend has taken hold.
		noise := c.params.NoiseLevel * c.noiseFactor()
		if c.target == path.True {
			result -= noise
		} else {
			result += noise
		}
	}

	result = clamp01(result)
	c.runtimeEntropy ^= math.Float64bits(result)
	return result
}

// DrawCount returns how many biased draws the controller has produced.
func (c *Controller) DrawCount() uint64 {
	return c.drawCount
}

// noiseFactor perturbs the nudge magnitude with the rolling entropy fold.
// It only depends on previously produced draws, so a deterministic uniform
// source still yields a deterministic draw sequence.
func (c *Controller) noiseFactor() float64 {
	return float64(c.runtimeEntropy%1024) / 1024
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func secureUniform() float64 {
	var buf [8]byte
	// crypto/rand.Read never returns an error as of Go 1.24.
	_, _ = rand.Read(buf[:])
	return float64(binary.BigEndian.Uint64(buf[:])) / (1 << 64)
}
