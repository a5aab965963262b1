// Package kvstore provides a transactional key-value store over SQL.
//
// Values are JSON-encoded and namespaced by collection. All reads and writes
// participate in a surrounding database transaction when one is present in
// the context (see internal/database.TxManager).
package kvstore

import (
	"context"
	"time"
)

// Store is the key-value contract consumed by the credential cache.
type Store interface {
	// Get decodes the value stored under (collection, key) into dest.
	// The boolean is false when the key is absent.
	Get(ctx context.Context, collection, key string, dest any) (bool, error)

	// Set stores value under (collection, key), overwriting any prior value.
	Set(ctx context.Context, collection, key string, value any) error

	// GetTime retrieves a stored timestamp, or nil when absent.
	GetTime(ctx context.Context, collection, key string) (*time.Time, error)

	// SetTime stores a timestamp under (collection, key).
	SetTime(ctx context.Context, collection, key string, value time.Time) error

	// RemoveAll deletes every entry in a collection.
	RemoveAll(ctx context.Context, collection string) error
}
