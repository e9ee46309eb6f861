package veil_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilcrypt/veil-go/pkg/veil"
	"github.com/veilcrypt/veil-go/pkg/veil/engine"
)

var (
	trueKey  = []byte("the-real-key-0123456789abcdefgh")
	falseKey = []byte("the-decoy-key-0123456789abcdefg")
	salt     = []byte("public-salt-0123")

	trueData  = []byte("meet at the north gate at dawn")
	falseData = []byte("grocery list: eggs, milk, bread")
)

func sealDefault(t *testing.T, cfg veil.Config) []byte {
	t.Helper()
	res, err := veil.Seal(context.Background(), &veil.SealParams{
		TrueKey:   trueKey,
		FalseKey:  falseKey,
		Salt:      salt,
		TrueData:  trueData,
		FalseData: falseData,
		Config:    cfg,
	})
	require.NoError(t, err)
	return res.Capsule
}

func TestSealOpenBothPaths(t *testing.T) {
	for _, cfg := range []veil.Config{
		{},
		{BlockType: veil.Interleave},
		{Shuffle: true},
		{BlockType: veil.Interleave, Shuffle: true, BlockSize: 16},
	} {
		blob := sealDefault(t, cfg)

		got, err := veil.Open(context.Background(), &veil.OpenParams{
			Key: trueKey, Salt: salt, Capsule: blob, Config: cfg,
		})
		require.NoError(t, err)
		assert.Equal(t, trueData, got.Data)

		got, err = veil.Open(context.Background(), &veil.OpenParams{
			Key: falseKey, Salt: salt, Capsule: blob, Config: cfg,
		})
		require.NoError(t, err)
		assert.Equal(t, falseData, got.Data)
	}
}

func TestOpenWrongKeyIsGeneric(t *testing.T) {
	blob := sealDefault(t, veil.Config{})

	_, err := veil.Open(context.Background(), &veil.OpenParams{
		Key:     []byte("wrong-key-0123456789abcdefghijk"),
		Salt:    salt,
		Capsule: blob,
	})
	assert.ErrorIs(t, err, veil.ErrOpenFailed)
}

func TestOpenWrongSaltIsGeneric(t *testing.T) {
	blob := sealDefault(t, veil.Config{})

	_, err := veil.Open(context.Background(), &veil.OpenParams{
		Key:     trueKey,
		Salt:    []byte("other-salt-01234"),
		Capsule: blob,
	})
	assert.ErrorIs(t, err, veil.ErrOpenFailed)
}

func TestOpenTamperedIsGeneric(t *testing.T) {
	blob := sealDefault(t, veil.Config{})

	// Flip a byte in the middle of the payload region.
	blob[len(blob)/2] ^= 0x80
	_, err := veil.Open(context.Background(), &veil.OpenParams{
		Key: trueKey, Salt: salt, Capsule: blob,
	})
	assert.ErrorIs(t, err, veil.ErrOpenFailed,
		"tampering must fail exactly like a wrong key")
}

func TestSealRejectsWeakKeys(t *testing.T) {
	_, err := veil.Seal(context.Background(), &veil.SealParams{
		TrueKey:  []byte("short"),
		FalseKey: falseKey,
		Salt:     salt,
	})
	assert.ErrorIs(t, err, engine.ErrWeakKey)

	var verr *veil.Error
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "Seal", verr.Op)
}

func TestSealValidation(t *testing.T) {
	_, err := veil.Seal(context.Background(), nil)
	assert.Error(t, err)

	_, err = veil.Seal(context.Background(), &veil.SealParams{
		TrueKey: trueKey, FalseKey: falseKey,
	})
	assert.ErrorIs(t, err, veil.ErrInvalidParameter)
}

func TestEmptyPayloads(t *testing.T) {
	res, err := veil.Seal(context.Background(), &veil.SealParams{
		TrueKey:  trueKey,
		FalseKey: falseKey,
		Salt:     salt,
		TrueData: []byte("only the true side has content"),
	})
	require.NoError(t, err)

	got, err := veil.Open(context.Background(), &veil.OpenParams{
		Key: falseKey, Salt: salt, Capsule: res.Capsule,
	})
	require.NoError(t, err)
	assert.Empty(t, got.Data)
}

func TestNewSalt(t *testing.T) {
	a, err := veil.NewSalt()
	require.NoError(t, err)
	require.Len(t, a, veil.SaltSize)

	b, err := veil.NewSalt()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSameKeyBothSides(t *testing.T) {
	// Using one key for both payloads is allowed: the path label alone
	// separates the derivations, and Open returns the true payload first.
	res, err := veil.Seal(context.Background(), &veil.SealParams{
		TrueKey:   trueKey,
		FalseKey:  trueKey,
		Salt:      salt,
		TrueData:  trueData,
		FalseData: falseData,
	})
	require.NoError(t, err)

	got, err := veil.Open(context.Background(), &veil.OpenParams{
		Key: trueKey, Salt: salt, Capsule: res.Capsule,
	})
	require.NoError(t, err)
	assert.Equal(t, trueData, got.Data)
}
