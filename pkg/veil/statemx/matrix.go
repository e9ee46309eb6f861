package statemx

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/veilcrypt/veil-go/internal/draws"
)

const (
	// DefaultStateCount is the matrix size used by the engine unless
	// configured otherwise.
	DefaultStateCount = 16

	// MaxTransitions caps the out-degree of a state.
	MaxTransitions = 5

	// MinProbability and MaxProbability bound the raw (pre-normalization)
	// weight drawn for a single transition.
	MinProbability = 0.05
	MaxProbability = 0.95
)

var (
	// ErrInvalidKey reports an empty key or salt.
	ErrInvalidKey = errors.New("statemx: key and salt must be non-empty")

	// ErrInvalidStateCount reports a non-positive matrix size.
	ErrInvalidStateCount = errors.New("statemx: state count must be positive")
)

// Attributes carries advisory per-state parameters derived from the key.
// Nothing in the walk or the wire format depends on them; they exist so
// hosts can key auxiliary behavior off individual states.
type Attributes struct {
	Complexity   float64
	Volatility   float64
	MemoryImpact float64
	HashSeed     uint32
	TransformKey uint32
}

// Transition is one weighted outgoing edge of a state.
type Transition struct {
	To          int
	Probability float64
}

// State is a single node of the matrix. States are immutable once generated.
type State struct {
	ID    int
	Attrs Attributes

	// Transitions holds the outgoing edges in canonical generation order.
	// Cumulative selection walks this slice front to back; reordering it
	// would change which successor wins at exact draw boundaries.
	Transitions []Transition
}

// Matrix is a complete keyed state machine plus its two initial states.
type Matrix struct {
	States       []State
	TrueInitial  int
	FalseInitial int
}

// Generate builds the matrix for (key, salt) with n states. The result is
// deterministic: the same inputs always produce the same matrix.
func Generate(key, salt []byte, n int) (*Matrix, error) {
	if len(key) == 0 || len(salt) == 0 {
		return nil, ErrInvalidKey
	}
	if n < 1 {
		return nil, ErrInvalidStateCount
	}

	m := &Matrix{States: make([]State, n)}
	for i := 0; i < n; i++ {
		m.States[i] = generateState(key, salt, i, n)
	}

	m.TrueInitial = draws.Index(key, salt, "true_path_initial_state", n)
	m.FalseInitial = m.TrueInitial
	if n > 1 {
		// Re-map the false draw into the n-1 remaining ids so the two
		// initials never collide.
		j := draws.Index(key, salt, "false_path_initial_state", n-1)
		if j >= m.TrueInitial {
			j++
		}
		m.FalseInitial = j
	}
	return m, nil
}

// Initial returns the initial state id for the given path label semantics:
// truePath selects TrueInitial, otherwise FalseInitial.
func (m *Matrix) Initial(truePath bool) int {
	if truePath {
		return m.TrueInitial
	}
	return m.FalseInitial
}

func generateState(key, salt []byte, id, n int) State {
	st := State{
		ID:    id,
		Attrs: generateAttributes(key, salt, id),
	}

	maxOut := MaxTransitions
	if n-1 < maxOut {
		maxOut = n - 1
	}
	if maxOut < 1 {
		// Single-state matrix: no candidates besides self. The executor
		// treats the empty transition list as a terminal self-loop.
		return st
	}

	numTransitions := draws.IntBetween(key, salt,
		fmt.Sprintf("num_transitions_%d", id), 1, maxOut)

	// Pick distinct successors by popping indices out of a shrinking pool
	// of "not self, not yet chosen" candidates.
	pool := make([]int, 0, n-1)
	for s := 0; s < n; s++ {
		if s != id {
			pool = append(pool, s)
		}
	}
	st.Transitions = make([]Transition, 0, numTransitions)
	for j := 0; j < numTransitions; j++ {
		k := draws.Index(key, salt,
			fmt.Sprintf("state_selection_%d_%d", id, j), len(pool))
		next := pool[k]
		pool = append(pool[:k], pool[k+1:]...)

		p := draws.FloatBetween(key, salt,
			fmt.Sprintf("transition_prob_%d_%d", id, next),
			MinProbability, MaxProbability/float64(numTransitions))
		st.Transitions = append(st.Transitions, Transition{To: next, Probability: p})
	}

	normalize(st.Transitions)
	return st
}

func generateAttributes(key, salt []byte, id int) Attributes {
	digest := draws.Bytes(key, salt, fmt.Sprintf("state_params_%d", id))
	toUnit := func(b []byte) float64 {
		return float64(binary.BigEndian.Uint64(b)) / (1 << 64)
	}
	return Attributes{
		Complexity:   toUnit(digest[0:8]),
		Volatility:   toUnit(digest[8:16]),
		MemoryImpact: toUnit(digest[16:24]),
		HashSeed:     binary.BigEndian.Uint32(digest[24:28]),
		TransformKey: binary.BigEndian.Uint32(digest[28:32]),
	}
}

func normalize(ts []Transition) {
	var sum float64
	for _, t := range ts {
		sum += t.Probability
	}
	if sum == 0 {
		return
	}
	for i := range ts {
		ts[i].Probability /= sum
	}
}
