package statemx_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilcrypt/veil-go/pkg/veil/statemx"
)

var (
	testKey  = []byte("0123456789abcdef0123456789abcdef")
	testSalt = []byte("matrix-test-salt")
)

func TestGenerateDeterminism(t *testing.T) {
	a, err := statemx.Generate(testKey, testSalt, 16)
	require.NoError(t, err)
	b, err := statemx.Generate(testKey, testSalt, 16)
	require.NoError(t, err)

	assert.Equal(t, a, b, "same (key, salt) must yield an identical matrix")

	c, err := statemx.Generate(testKey, []byte("other-salt"), 16)
	require.NoError(t, err)
	assert.NotEqual(t, a.States, c.States, "different salt must yield a different matrix")
}

func TestNormalizationInvariant(t *testing.T) {
	for _, n := range []int{2, 3, 8, 16, 64} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			m, err := statemx.Generate(testKey, testSalt, n)
			require.NoError(t, err)

			for _, st := range m.States {
				var sum float64
				for _, tr := range st.Transitions {
					sum += tr.Probability
				}
				assert.InDelta(t, 1.0, sum, 1e-3, "state %d", st.ID)
			}
		})
	}
}

func TestTransitionStructure(t *testing.T) {
	m, err := statemx.Generate(testKey, testSalt, 16)
	require.NoError(t, err)
	require.Len(t, m.States, 16)

	for _, st := range m.States {
		require.GreaterOrEqual(t, len(st.Transitions), 1)
		require.LessOrEqual(t, len(st.Transitions), statemx.MaxTransitions)

		seen := make(map[int]bool)
		for _, tr := range st.Transitions {
			assert.NotEqual(t, st.ID, tr.To, "no self transitions at generation time")
			assert.False(t, seen[tr.To], "successors must be distinct")
			seen[tr.To] = true
			assert.GreaterOrEqual(t, tr.To, 0)
			assert.Less(t, tr.To, 16)
			assert.Greater(t, tr.Probability, 0.0)
		}
	}
}

func TestInitialStateDistinctness(t *testing.T) {
	for i := 0; i < 50; i++ {
		key := []byte(fmt.Sprintf("distinctness-test-key-%08d", i))
		m, err := statemx.Generate(key, testSalt, 8)
		require.NoError(t, err)

		assert.NotEqual(t, m.TrueInitial, m.FalseInitial, "key %d", i)
		assert.GreaterOrEqual(t, m.TrueInitial, 0)
		assert.Less(t, m.TrueInitial, 8)
		assert.GreaterOrEqual(t, m.FalseInitial, 0)
		assert.Less(t, m.FalseInitial, 8)
	}
}

func TestSingleStateMatrix(t *testing.T) {
	m, err := statemx.Generate(testKey, testSalt, 1)
	require.NoError(t, err)

	// Degenerate-but-defined: both initials collapse onto the only state,
	// which has no outgoing transitions.
	assert.Equal(t, 0, m.TrueInitial)
	assert.Equal(t, 0, m.FalseInitial)
	assert.Empty(t, m.States[0].Transitions)
}

func TestGenerateValidation(t *testing.T) {
	_, err := statemx.Generate(nil, testSalt, 8)
	assert.ErrorIs(t, err, statemx.ErrInvalidKey)

	_, err = statemx.Generate(testKey, nil, 8)
	assert.ErrorIs(t, err, statemx.ErrInvalidKey)

	_, err = statemx.Generate(testKey, testSalt, 0)
	assert.ErrorIs(t, err, statemx.ErrInvalidStateCount)
}

func TestAttributesAreUnitRange(t *testing.T) {
	m, err := statemx.Generate(testKey, testSalt, 16)
	require.NoError(t, err)

	for _, st := range m.States {
		for name, v := range map[string]float64{
			"complexity":    st.Attrs.Complexity,
			"volatility":    st.Attrs.Volatility,
			"memory_impact": st.Attrs.MemoryImpact,
		} {
			assert.False(t, math.IsNaN(v), "%s of state %d", name, st.ID)
			assert.GreaterOrEqual(t, v, 0.0, "%s of state %d", name, st.ID)
			assert.Less(t, v, 1.0, "%s of state %d", name, st.ID)
		}
	}
}
