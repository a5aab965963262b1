package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryStore is an in-memory key-value store for tests. Values are stored
// JSON-encoded so decode behavior matches the SQL-backed store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string][]byte

	// GetErr, when set, is returned by every Get call.
	GetErr error
	// SetErr, when set, is returned by every Set call.
	SetErr error
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string][]byte{}}
}

// Get decodes the value stored under (collection, key) into dest.
func (m *MemoryStore) Get(_ context.Context, collection, key string, dest any) (bool, error) {
	if m.GetErr != nil {
		return false, m.GetErr
	}

	m.mu.Lock()
	raw, ok := m.entries[collection+"/"+key]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

// Set stores value under (collection, key).
func (m *MemoryStore) Set(_ context.Context, collection, key string, value any) error {
	if m.SetErr != nil {
		return m.SetErr
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.entries[collection+"/"+key] = raw
	m.mu.Unlock()
	return nil
}

// GetTime retrieves a stored timestamp, or nil when absent.
func (m *MemoryStore) GetTime(ctx context.Context, collection, key string) (*time.Time, error) {
	var value time.Time
	found, err := m.Get(ctx, collection, key, &value)
	if err != nil || !found {
		return nil, err
	}
	return &value, nil
}

// SetTime stores a timestamp under (collection, key).
func (m *MemoryStore) SetTime(ctx context.Context, collection, key string, value time.Time) error {
	return m.Set(ctx, collection, key, value)
}

// RemoveAll deletes every entry in a collection.
func (m *MemoryStore) RemoveAll(_ context.Context, collection string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefix := collection + "/"
	for k := range m.entries {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			delete(m.entries, k)
		}
	}
	return nil
}
