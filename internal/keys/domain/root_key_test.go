package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootKey(t *testing.T) {
	now := time.Now().UTC()
	validKey := make([]byte, RootKeySize)
	for i := range validKey {
		validKey[i] = byte(i)
	}

	t.Run("valid key", func(t *testing.T) {
		rootKey, err := NewRootKey(PurposeMessages, validKey, now)
		require.NoError(t, err)
		assert.Equal(t, PurposeMessages, rootKey.Purpose)
		assert.Equal(t, validKey, rootKey.Key)
		assert.Equal(t, now, rootKey.CreatedAt)
	})

	t.Run("invalid purpose", func(t *testing.T) {
		_, err := NewRootKey(Purpose("calls"), validKey, now)
		assert.ErrorIs(t, err, ErrInvalidKeyMaterial)
	})

	t.Run("wrong key length", func(t *testing.T) {
		_, err := NewRootKey(PurposeMedia, make([]byte, 16), now)
		assert.ErrorIs(t, err, ErrInvalidKeyMaterial)
	})

	t.Run("empty key", func(t *testing.T) {
		_, err := NewRootKey(PurposeMedia, nil, now)
		assert.ErrorIs(t, err, ErrInvalidKeyMaterial)
	})
}

func TestPurposeIsValid(t *testing.T) {
	assert.True(t, PurposeMessages.IsValid())
	assert.True(t, PurposeMedia.IsValid())
	assert.False(t, Purpose("calls").IsValid())
	assert.False(t, Purpose("").IsValid())
}

func TestZero(t *testing.T) {
	t.Run("overwrites all bytes", func(t *testing.T) {
		b := []byte{1, 2, 3, 4}
		Zero(b)
		assert.Equal(t, []byte{0, 0, 0, 0}, b)
	})

	t.Run("nil slice is a no-op", func(t *testing.T) {
		assert.NotPanics(t, func() { Zero(nil) })
	})
}

func TestMediaKeyMaterialZero(t *testing.T) {
	material := &MediaKeyMaterial{
		HMACKey: []byte{1, 2, 3},
		AESKey:  []byte{4, 5, 6},
	}
	material.Zero()
	assert.Equal(t, []byte{0, 0, 0}, material.HMACKey)
	assert.Equal(t, []byte{0, 0, 0}, material.AESKey)
}
