package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	keysDomain "github.com/allisson/mediavault/internal/keys/domain"
)

// WrappedRootKey is a root key encrypted by the KMS keeper, safe to persist.
type WrappedRootKey struct {
	Purpose    keysDomain.Purpose
	WrappedKey []byte
	CreatedAt  time.Time
}

// RootKeyService manages the lifecycle of root backup keys. Plaintext key
// material exists only in memory; at rest the key is wrapped by the keeper.
type RootKeyService struct {
	repo   RootKeyRepository
	keeper KeyKeeper
	nowFn  func() time.Time
}

// NewRootKeyService creates a new RootKeyService.
func NewRootKeyService(repo RootKeyRepository, keeper KeyKeeper, nowFn func() time.Time) *RootKeyService {
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}
	return &RootKeyService{repo: repo, keeper: keeper, nowFn: nowFn}
}

// Create generates a new random root key for the purpose, wraps it with the
// keeper and persists the wrapped form. Called when backups are enabled.
func (s *RootKeyService) Create(ctx context.Context, purpose keysDomain.Purpose) (*keysDomain.RootKey, error) {
	key := make([]byte, keysDomain.RootKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate root key: %w", err)
	}

	rootKey, err := keysDomain.NewRootKey(purpose, key, s.nowFn())
	if err != nil {
		return nil, err
	}

	wrapped, err := s.keeper.Encrypt(ctx, rootKey.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap root key: %w", err)
	}

	record := &WrappedRootKey{
		Purpose:    rootKey.Purpose,
		WrappedKey: wrapped,
		CreatedAt:  rootKey.CreatedAt,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		keysDomain.Zero(rootKey.Key)
		return nil, err
	}

	return rootKey, nil
}

// Get loads and unwraps the root key for a purpose.
func (s *RootKeyService) Get(ctx context.Context, purpose keysDomain.Purpose) (*keysDomain.RootKey, error) {
	record, err := s.repo.Get(ctx, purpose)
	if err != nil {
		return nil, err
	}

	key, err := s.keeper.Decrypt(ctx, record.WrappedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap root key: %w", err)
	}

	return keysDomain.NewRootKey(record.Purpose, key, record.CreatedAt)
}

// Destroy removes the root key for a purpose. Called when backups are disabled.
func (s *RootKeyService) Destroy(ctx context.Context, purpose keysDomain.Purpose) error {
	return s.repo.Delete(ctx, purpose)
}
