// Package service implements key derivation and root key lifecycle management.
// All derivations use HKDF-SHA256 with purpose-specific info labels so that no
// two purposes ever share key material.
package service

import (
	"context"
	"crypto/ed25519"

	keysDomain "github.com/allisson/mediavault/internal/keys/domain"
)

// KeyDeriver defines the deterministic key derivation contract.
// All methods are side-effect-free and fail only on malformed key material.
type KeyDeriver interface {
	// DeriveBackupID derives the 16-byte backup identifier for an account.
	DeriveBackupID(root *keysDomain.RootKey, accountID string) ([]byte, error)

	// DeriveTransportKey derives the signing key used to sign credential
	// presentations for an account.
	DeriveTransportKey(root *keysDomain.RootKey, accountID string) (ed25519.PrivateKey, error)

	// DeriveMediaID derives the 15-byte media identifier for a media name.
	// The root key must have the media purpose.
	DeriveMediaID(mediaRoot *keysDomain.RootKey, mediaName string) ([]byte, error)

	// DeriveMediaKeys derives the HMAC and AES keys for a media identifier
	// under the given purpose. The root key must have the media purpose.
	DeriveMediaKeys(
		mediaRoot *keysDomain.RootKey,
		mediaID []byte,
		purpose keysDomain.MediaKeyPurpose,
	) (*keysDomain.MediaKeyMaterial, error)
}

// KeyKeeper wraps and unwraps root key material at rest. *secrets.Keeper from
// gocloud.dev implements this interface.
type KeyKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// RootKeyRepository persists wrapped root key material, one row per purpose.
type RootKeyRepository interface {
	// Create stores a wrapped root key. Returns ErrConflict if a key for the
	// purpose already exists.
	Create(ctx context.Context, key *WrappedRootKey) error

	// Get retrieves the wrapped root key for a purpose.
	// Returns ErrNotFound if absent.
	Get(ctx context.Context, purpose keysDomain.Purpose) (*WrappedRootKey, error)

	// Delete removes the wrapped root key for a purpose.
	Delete(ctx context.Context, purpose keysDomain.Purpose) error
}
