package statemx

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrInvalidInitialState reports an initial state id outside the matrix.
var ErrInvalidInitialState = errors.New("statemx: initial state out of range")

// DrawFunc supplies the uniform draw in [0,1) consumed by one step. The
// probability engine injects biased draws through this hook; tests inject
// fixed values.
type DrawFunc func() float64

// Executor walks a Matrix from an initial state, recording the visited
// state ids. It is single-use: create a new Executor to restart a walk.
type Executor struct {
	m       *Matrix
	current int
	path    []int
	draw    DrawFunc
}

// NewExecutor returns an executor positioned at initial. A nil draw defaults
// to cryptographically strong uniform draws from the operating system RNG.
func NewExecutor(m *Matrix, initial int, draw DrawFunc) (*Executor, error) {
	if m == nil {
		return nil, errors.New("statemx: nil matrix")
	}
	if initial < 0 || initial >= len(m.States) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidInitialState, initial)
	}
	if draw == nil {
		draw = secureUniform
	}
	return &Executor{
		m:       m,
		current: initial,
		path:    []int{initial},
		draw:    draw,
	}, nil
}

// Step advances one transition using the supplied draw and returns the new
// current state id. Selection is cumulative: the first transition whose
// running probability sum reaches r wins, in canonical transition order.
// A state with no outgoing transitions is terminal and loops on itself.
func (e *Executor) Step(r float64) int {
	st := &e.m.States[e.current]
	next := e.current
	if len(st.Transitions) > 0 {
		// Fall back to the last successor when floating-point error
		// leaves the cumulative sum just short of 1.
		next = st.Transitions[len(st.Transitions)-1].To
		var cum float64
		for _, t := range st.Transitions {
			cum += t.Probability
			if cum >= r {
				next = t.To
				break
			}
		}
	}
	e.current = next
	e.path = append(e.path, next)
	return next
}

// Run performs steps transitions with the executor's own draw source and
// returns the full path, initial state included (length steps+1).
func (e *Executor) Run(steps int) []int {
	for i := 0; i < steps; i++ {
		e.Step(e.draw())
	}
	return e.Path()
}

// Current returns the current state id.
func (e *Executor) Current() int {
	return e.current
}

// Path returns a copy of the visited state ids.
func (e *Executor) Path() []int {
	out := make([]int, len(e.path))
	copy(out, e.path)
	return out
}

func secureUniform() float64 {
	var buf [8]byte
	// crypto/rand.Read never returns an error as of Go 1.24.
	_, _ = rand.Read(buf[:])
	return float64(binary.BigEndian.Uint64(buf[:])) / (1 << 64)
}
