package service

import (
	"bytes"
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	keysDomain "github.com/allisson/mediavault/internal/keys/domain"
)

func testRootKey(t *testing.T, purpose keysDomain.Purpose) *keysDomain.RootKey {
	t.Helper()
	key := bytes.Repeat([]byte{0x42}, keysDomain.RootKeySize)
	root, err := keysDomain.NewRootKey(purpose, key, time.Now().UTC())
	require.NoError(t, err)
	return root
}

func TestDeriveBackupID(t *testing.T) {
	service := NewDerivationService()
	root := testRootKey(t, keysDomain.PurposeMessages)

	t.Run("deterministic", func(t *testing.T) {
		first, err := service.DeriveBackupID(root, "account-1")
		require.NoError(t, err)
		second, err := service.DeriveBackupID(root, "account-1")
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Len(t, first, keysDomain.BackupIDSize)
	})

	t.Run("differs per account", func(t *testing.T) {
		first, err := service.DeriveBackupID(root, "account-1")
		require.NoError(t, err)
		second, err := service.DeriveBackupID(root, "account-2")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("malformed root key", func(t *testing.T) {
		bad := &keysDomain.RootKey{Purpose: keysDomain.PurposeMessages, Key: []byte("short")}
		_, err := service.DeriveBackupID(bad, "account-1")
		assert.ErrorIs(t, err, keysDomain.ErrInvalidKeyMaterial)
	})
}

func TestDeriveTransportKey(t *testing.T) {
	service := NewDerivationService()
	root := testRootKey(t, keysDomain.PurposeMessages)

	t.Run("deterministic key pair", func(t *testing.T) {
		first, err := service.DeriveTransportKey(root, "account-1")
		require.NoError(t, err)
		second, err := service.DeriveTransportKey(root, "account-1")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("signatures verify", func(t *testing.T) {
		key, err := service.DeriveTransportKey(root, "account-1")
		require.NoError(t, err)

		message := []byte("presentation payload")
		signature := ed25519.Sign(key, message)
		assert.True(t, ed25519.Verify(key.Public().(ed25519.PublicKey), message, signature))
	})

	t.Run("distinct from backup id derivation", func(t *testing.T) {
		backupID, err := service.DeriveBackupID(root, "account-1")
		require.NoError(t, err)
		key, err := service.DeriveTransportKey(root, "account-1")
		require.NoError(t, err)
		assert.NotEqual(t, backupID, []byte(key.Seed())[:keysDomain.BackupIDSize])
	})
}

func TestDeriveMediaID(t *testing.T) {
	service := NewDerivationService()
	mediaRoot := testRootKey(t, keysDomain.PurposeMedia)

	t.Run("deterministic", func(t *testing.T) {
		first, err := service.DeriveMediaID(mediaRoot, "abcdef0123")
		require.NoError(t, err)
		second, err := service.DeriveMediaID(mediaRoot, "abcdef0123")
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Len(t, first, keysDomain.MediaIDSize)
	})

	t.Run("differs per media name", func(t *testing.T) {
		first, err := service.DeriveMediaID(mediaRoot, "media-a")
		require.NoError(t, err)
		second, err := service.DeriveMediaID(mediaRoot, "media-b")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("requires media purpose", func(t *testing.T) {
		messagesRoot := testRootKey(t, keysDomain.PurposeMessages)
		_, err := service.DeriveMediaID(messagesRoot, "media-a")
		assert.ErrorIs(t, err, keysDomain.ErrInvalidKeyMaterial)
	})
}

func TestDeriveMediaKeys(t *testing.T) {
	service := NewDerivationService()
	mediaRoot := testRootKey(t, keysDomain.PurposeMedia)

	mediaID, err := service.DeriveMediaID(mediaRoot, "abcdef0123")
	require.NoError(t, err)

	t.Run("deterministic", func(t *testing.T) {
		first, err := service.DeriveMediaKeys(mediaRoot, mediaID, keysDomain.MediaKeyPurposeOuterLayer)
		require.NoError(t, err)
		second, err := service.DeriveMediaKeys(mediaRoot, mediaID, keysDomain.MediaKeyPurposeOuterLayer)
		require.NoError(t, err)
		assert.Equal(t, first.HMACKey, second.HMACKey)
		assert.Equal(t, first.AESKey, second.AESKey)
		assert.Len(t, first.HMACKey, keysDomain.MediaKeySize)
		assert.Len(t, first.AESKey, keysDomain.MediaKeySize)
	})

	t.Run("purposes never share key material", func(t *testing.T) {
		outer, err := service.DeriveMediaKeys(mediaRoot, mediaID, keysDomain.MediaKeyPurposeOuterLayer)
		require.NoError(t, err)
		thumbnail, err := service.DeriveMediaKeys(mediaRoot, mediaID, keysDomain.MediaKeyPurposeTransitThumbnail)
		require.NoError(t, err)
		assert.NotEqual(t, outer.HMACKey, thumbnail.HMACKey)
		assert.NotEqual(t, outer.AESKey, thumbnail.AESKey)
	})

	t.Run("hmac and aes keys differ", func(t *testing.T) {
		material, err := service.DeriveMediaKeys(mediaRoot, mediaID, keysDomain.MediaKeyPurposeOuterLayer)
		require.NoError(t, err)
		assert.NotEqual(t, material.HMACKey, material.AESKey)
	})

	t.Run("rejects wrong media id size", func(t *testing.T) {
		_, err := service.DeriveMediaKeys(mediaRoot, []byte("short"), keysDomain.MediaKeyPurposeOuterLayer)
		assert.ErrorIs(t, err, keysDomain.ErrInvalidKeyMaterial)
	})

	t.Run("rejects unknown purpose", func(t *testing.T) {
		_, err := service.DeriveMediaKeys(mediaRoot, mediaID, keysDomain.MediaKeyPurpose("bogus"))
		assert.ErrorIs(t, err, keysDomain.ErrInvalidKeyMaterial)
	})
}
