package engine_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilcrypt/veil-go/pkg/veil/engine"
	"github.com/veilcrypt/veil-go/pkg/veil/path"
)

var (
	testKey  = []byte("engine-test-key-0123456789abcdef")
	testSalt = []byte("engine-test-salt")
)

func TestValidateKey(t *testing.T) {
	t.Run("accepts a reasonable key", func(t *testing.T) {
		assert.NoError(t, engine.ValidateKey(testKey))
	})

	t.Run("rejects short keys", func(t *testing.T) {
		err := engine.ValidateKey([]byte("short"))
		assert.ErrorIs(t, err, engine.ErrWeakKey)
	})

	t.Run("rejects single-byte keys", func(t *testing.T) {
		for _, b := range []byte{0x00, 0xFF, 0xAA, 0x42} {
			key := bytes.Repeat([]byte{b}, 32)
			assert.ErrorIs(t, engine.ValidateKey(key), engine.ErrWeakKey, "byte %#x", b)
		}
	})

	t.Run("rejects degenerate prefixes", func(t *testing.T) {
		key := append([]byte{0xAA, 0x55, 0xAA, 0x55}, testKey...)
		assert.ErrorIs(t, engine.ValidateKey(key), engine.ErrWeakKey)

		key = append([]byte{0x00, 0x00, 0x00, 0x00}, testKey...)
		assert.ErrorIs(t, engine.ValidateKey(key), engine.ErrWeakKey)
	})
}

func TestNewValidation(t *testing.T) {
	_, err := engine.New([]byte("short"), testSalt, path.True, nil)
	assert.ErrorIs(t, err, engine.ErrWeakKey)

	_, err = engine.New(testKey, nil, path.True, nil)
	assert.Error(t, err)

	_, err = engine.New(testKey, testSalt, path.Path(0), nil)
	assert.ErrorIs(t, err, engine.ErrInvalidPath)
}

func TestControllerParamRanges(t *testing.T) {
	for _, target := range []path.Path{path.True, path.False} {
		ctrl, err := engine.NewController(testKey, testSalt, target)
		require.NoError(t, err)

		p := ctrl.Params()
		assert.GreaterOrEqual(t, p.BiasStrength, 0.55)
		assert.Less(t, p.BiasStrength, 0.95)
		assert.GreaterOrEqual(t, p.ConvergenceRate, 0.05)
		assert.Less(t, p.ConvergenceRate, 0.20)
		assert.GreaterOrEqual(t, p.NoiseLevel, 0.01)
		assert.Less(t, p.NoiseLevel, 0.05)
		assert.GreaterOrEqual(t, p.ConvergenceThreshold, 0.50)
		assert.Less(t, p.ConvergenceThreshold, 0.75)
	}
}

func TestPhaseBoundary(t *testing.T) {
	ctrl, err := engine.NewController(testKey, testSalt, path.True)
	require.NoError(t, err)

	total := 1000
	thr := ctrl.Params().ConvergenceThreshold
	boundary := int(thr * float64(total))

	assert.Equal(t, engine.PhaseExploring, ctrl.PhaseAt(0, total))
	assert.Equal(t, engine.PhaseExploring, ctrl.PhaseAt(boundary, total))
	assert.Equal(t, engine.PhaseConverging, ctrl.PhaseAt(boundary+1, total))
	assert.Equal(t, engine.PhaseConverging, ctrl.PhaseAt(total-1, total))
}

func TestBiasedDrawBounds(t *testing.T) {
	ctrl, err := engine.NewController(testKey, testSalt, path.False)
	require.NoError(t, err)

	total := 200
	for step := 0; step < total; step++ {
		v := ctrl.BiasedDraw(step, total, step%16)
		require.False(t, math.IsNaN(v))
		require.GreaterOrEqual(t, v, 0.0)
		require.LessOrEqual(t, v, 1.0)
	}
	assert.Equal(t, uint64(total), ctrl.DrawCount())
}

func TestRunExecution(t *testing.T) {
	e, err := engine.New(testKey, testSalt, path.True, nil)
	require.NoError(t, err)

	_, err = e.Signature()
	assert.ErrorIs(t, err, engine.ErrNotExecuted)

	p, err := e.RunExecution(100)
	require.NoError(t, err)
	assert.Len(t, p, 101)
	assert.Equal(t, e.Matrix().TrueInitial, p[0])

	sig, err := e.Signature()
	require.NoError(t, err)
	assert.Len(t, sig, engine.SignatureSize)

	_, err = e.RunExecution(0)
	assert.ErrorIs(t, err, engine.ErrInvalidSteps)
}

func TestDeriveSignatureReproducibility(t *testing.T) {
	build := func(target path.Path) []byte {
		e, err := engine.New(testKey, testSalt, target, nil)
		require.NoError(t, err)
		sig, err := e.DeriveSignature(engine.DefaultSteps)
		require.NoError(t, err)
		return sig
	}

	sigTrue := build(path.True)
	assert.Equal(t, sigTrue, build(path.True), "deterministic signature must reproduce")
	assert.NotEqual(t, sigTrue, build(path.False), "paths must separate signatures")

	// Fresh engine instances do not interfere: DeriveSignature works on an
	// engine that has also done a probabilistic run.
	e, err := engine.New(testKey, testSalt, path.True, nil)
	require.NoError(t, err)
	_, err = e.RunExecution(32)
	require.NoError(t, err)
	sig, err := e.DeriveSignature(engine.DefaultSteps)
	require.NoError(t, err)
	assert.Equal(t, sigTrue, sig)
}

// TestStatisticalConvergence checks the trapdoor property: the distribution
// of final states differs measurably between the two target paths, even
// though individual paths vary run to run. The comparison is total variation
// distance between empirical final-state histograms.
func TestStatisticalConvergence(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test")
	}

	const (
		steps = 120
		runs  = 500
	)

	finals := func(target path.Path) map[int]float64 {
		e, err := engine.New(testKey, testSalt, target, nil)
		require.NoError(t, err)

		hist := make(map[int]float64)
		for i := 0; i < runs; i++ {
			p, err := e.RunExecution(steps)
			require.NoError(t, err)
			hist[p[len(p)-1]] += 1.0 / runs
		}
		return hist
	}

	trueHist := finals(path.True)
	falseHist := finals(path.False)

	var tvd float64
	for s := 0; s < 16; s++ {
		tvd += math.Abs(trueHist[s] - falseHist[s])
	}
	tvd /= 2

	assert.Greater(t, tvd, 0.15,
		"final-state distributions should diverge between paths (tvd=%.3f)", tvd)
}

// TestRunsAreNotIdentical guards the other half of the determinism contract:
// the exploration phase consumes true randomness, so two probabilistic runs
// should not replay the same path.
func TestRunsAreNotIdentical(t *testing.T) {
	e, err := engine.New(testKey, testSalt, path.True, nil)
	require.NoError(t, err)

	a, err := e.RunExecution(200)
	require.NoError(t, err)
	b, err := e.RunExecution(200)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
