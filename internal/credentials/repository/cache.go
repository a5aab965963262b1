// Package repository persists cached credentials in the key-value store.
package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/allisson/mediavault/internal/credentials/domain"
	"github.com/allisson/mediavault/internal/kvstore"
)

// Collections used by the credential cache.
const (
	CollectionCDNReadCredentials = "cdn_read_credentials"
	CollectionBackupInfo         = "backup_info"
)

// Cache stores credential entries with their creation time. A cached entry is
// advisory: anything absent, expired, or unreadable is treated as a miss and
// refetched, so read failures are logged and swallowed rather than surfaced.
type Cache struct {
	store  kvstore.Store
	logger *slog.Logger
	nowFn  func() time.Time
}

// NewCache creates a new Cache.
func NewCache(store kvstore.Store, logger *slog.Logger, nowFn func() time.Time) *Cache {
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}
	return &Cache{store: store, logger: logger, nowFn: nowFn}
}

// Lookup returns the cached payload under (collection, key), or nil when the
// entry is absent, older than lifetime, or cannot be decoded.
func Lookup[T any](ctx context.Context, c *Cache, collection, key string, lifetime time.Duration) *T {
	var entry domain.Cached[T]
	found, err := c.store.Get(ctx, collection, key, &entry)
	if err != nil {
		c.logger.Warn(
			"failed to read cached credential",
			slog.String("collection", collection),
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if !found || entry.IsExpired(c.nowFn(), lifetime) {
		return nil
	}

	payload := entry.Payload
	return &payload
}

// Store writes payload under (collection, key) stamped with the current time.
func Store[T any](ctx context.Context, c *Cache, collection, key string, payload T) error {
	entry := domain.Cached[T]{CreateDate: c.nowFn(), Payload: payload}
	return c.store.Set(ctx, collection, key, entry)
}

// GetString retrieves a metadata string stored alongside cached credentials.
func (c *Cache) GetString(ctx context.Context, collection, key string) (string, bool, error) {
	var value string
	found, err := c.store.Get(ctx, collection, key, &value)
	return value, found, err
}

// SetString stores a metadata string alongside cached credentials.
func (c *Cache) SetString(ctx context.Context, collection, key, value string) error {
	return c.store.Set(ctx, collection, key, value)
}

// GetTime retrieves a metadata timestamp stored alongside cached
// credentials, or nil when absent.
func (c *Cache) GetTime(ctx context.Context, collection, key string) (*time.Time, error) {
	return c.store.GetTime(ctx, collection, key)
}

// SetTime stores a metadata timestamp alongside cached credentials.
func (c *Cache) SetTime(ctx context.Context, collection, key string, value time.Time) error {
	return c.store.SetTime(ctx, collection, key, value)
}

// Wipe removes every entry in the given collections.
func (c *Cache) Wipe(ctx context.Context, collections ...string) error {
	for _, collection := range collections {
		if err := c.store.RemoveAll(ctx, collection); err != nil {
			return err
		}
	}
	return nil
}
