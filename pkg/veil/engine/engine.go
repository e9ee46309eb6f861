package engine

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/veilcrypt/veil-go/internal/draws"
	"github.com/veilcrypt/veil-go/pkg/veil/path"
	"github.com/veilcrypt/veil-go/pkg/veil/statemx"
)

// MinKeySize is the smallest key the engine accepts.
const MinKeySize = 16

// DefaultSteps is the walk length used by the top-level API.
const DefaultSteps = 64

// SignatureSize is the length of an execution signature in bytes.
const SignatureSize = sha256.Size

var (
	// ErrWeakKey reports a key that fails the sanity checks: too short,
	// a single repeated byte, or a denylisted degenerate prefix.
	ErrWeakKey = errors.New("engine: weak key rejected")

	// ErrInvalidPath reports a Path value outside the two defined variants.
	ErrInvalidPath = errors.New("engine: invalid target path")

	// ErrInvalidSteps reports a non-positive walk length.
	ErrInvalidSteps = errors.New("engine: steps must be positive")

	// ErrNotExecuted reports a signature request before any walk ran.
	ErrNotExecuted = errors.New("engine: no execution recorded")
)

// degeneratePrefixes are rejected outright. All-same-byte keys are caught
// separately; these cover short periodic patterns that survive that check.
var degeneratePrefixes = [][]byte{
	{0x00, 0x00, 0x00, 0x00},
	{0xFF, 0xFF, 0xFF, 0xFF},
	{0xAA, 0x55, 0xAA, 0x55},
	{0x55, 0xAA, 0x55, 0xAA},
	{0x0F, 0xF0, 0x0F, 0xF0},
	{0xF0, 0x0F, 0xF0, 0x0F},
}

// Options tunes engine construction. The zero value selects defaults.
type Options struct {
	// StateCount is the matrix size. Zero selects
	// statemx.DefaultStateCount.
	StateCount int
}

// Engine composes a state matrix, an executor, and a probability controller
// into a single keyed walk generator for one target path. An Engine is
// single-goroutine; parallel operations each need their own instance.
type Engine struct {
	key    []byte
	salt   []byte
	target path.Path

	matrix *statemx.Matrix
	ctrl   *Controller

	lastPath []int
}

// New builds an engine for (key, salt, target). The matrix and initial
// states are deterministic in the inputs; walks are not. A nil opts selects
// defaults.
func New(key, salt []byte, target path.Path, opts *Options) (*Engine, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if len(salt) == 0 {
		return nil, errors.New("engine: salt must be non-empty")
	}
	if !target.Valid() {
		return nil, ErrInvalidPath
	}

	stateCount := statemx.DefaultStateCount
	if opts != nil && opts.StateCount > 0 {
		stateCount = opts.StateCount
	}

	m, err := statemx.Generate(key, salt, stateCount)
	if err != nil {
		return nil, fmt.Errorf("generate matrix: %w", err)
	}
	ctrl, err := NewController(key, salt, target)
	if err != nil {
		return nil, err
	}

	return &Engine{
		key:    key,
		salt:   salt,
		target: target,
		matrix: m,
		ctrl:   ctrl,
	}, nil
}

// ValidateKey applies the weak-key sanity checks without building an engine.
func ValidateKey(key []byte) error {
	if len(key) < MinKeySize {
		return fmt.Errorf("%w: need at least %d bytes, got %d",
			ErrWeakKey, MinKeySize, len(key))
	}
	allSame := true
	for _, b := range key[1:] {
		if b != key[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return fmt.Errorf("%w: all key bytes identical", ErrWeakKey)
	}
	for _, prefix := range degeneratePrefixes {
		if bytes.HasPrefix(key, prefix) {
			return fmt.Errorf("%w: degenerate key prefix", ErrWeakKey)
		}
	}
	return nil
}

// Matrix exposes the generated state matrix, mainly for analysis and tests.
func (e *Engine) Matrix() *statemx.Matrix {
	return e.matrix
}

// Controller exposes the engine's probability controller.
func (e *Engine) Controller() *Controller {
	return e.ctrl
}

// Target returns the path the engine converges toward.
func (e *Engine) Target() path.Path {
	return e.target
}

// RunExecution walks the matrix for steps transitions using biased draws and
// returns the visited state ids (length steps+1). Draws consume true
// randomness during the exploration phase, so repeated runs produce
// different paths with the same convergence tendency.
func (e *Engine) RunExecution(steps int) ([]int, error) {
	if steps <= 0 {
		return nil, ErrInvalidSteps
	}
	p, err := e.walk(steps, e.ctrl)
	if err != nil {
		return nil, err
	}
	e.lastPath = p
	return p, nil
}

// Signature returns the execution signature of the most recent RunExecution:
// HMAC-SHA256 over the path, the controller parameters, and the path label.
func (e *Engine) Signature() ([]byte, error) {
	if len(e.lastPath) == 0 {
		return nil, ErrNotExecuted
	}
	return e.sign(e.lastPath), nil
}

// DeriveSignature runs a fully deterministic walk of the given length and
// returns its signature. The raw draws come from the keyed draw stream
// instead of the OS RNG, so the result is a pure function of
// (key, salt, target, steps), reproducible at decrypt time and therefore
// usable as key-derivation seed material. The engine's recorded execution
// is left untouched.
func (e *Engine) DeriveSignature(steps int) ([]byte, error) {
	if steps <= 0 {
		return nil, ErrInvalidSteps
	}

	var i int
	label := e.target.Label()
	uniform := func() float64 {
		v := draws.Float(e.key, e.salt,
			"deterministic_draw_"+strconv.Itoa(i)+"_"+label)
		i++
		return v
	}
	ctrl, err := newController(e.key, e.salt, e.target, uniform)
	if err != nil {
		return nil, err
	}
	p, err := e.walk(steps, ctrl)
	if err != nil {
		return nil, err
	}
	return e.sign(p), nil
}

func (e *Engine) walk(steps int, ctrl *Controller) ([]int, error) {
	ex, err := statemx.NewExecutor(e.matrix, e.matrix.Initial(e.target == path.True), nil)
	if err != nil {
		return nil, err
	}
	for i := 0; i < steps; i++ {
		ex.Step(ctrl.BiasedDraw(i, steps, ex.Current()))
	}
	return ex.Path(), nil
}

func (e *Engine) sign(p []int) []byte {
	ids := make([]string, len(p))
	for i, s := range p {
		ids[i] = strconv.Itoa(s)
	}
	params := e.ctrl.Params()

	mac := hmac.New(sha256.New, e.key)
	mac.Write([]byte(strings.Join(ids, ",")))
	mac.Write([]byte("|"))
	fmt.Fprintf(mac, "%.4f,%.4f", params.BiasStrength, params.ConvergenceRate)
	mac.Write([]byte("|"))
	mac.Write([]byte(e.target.Label()))
	return mac.Sum(nil)
}
