package kvstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/allisson/mediavault/internal/database"
	apperrors "github.com/allisson/mediavault/internal/errors"
)

// SQLStore implements Store on top of a single key_value_entries table.
// The upsert syntax differs between PostgreSQL and MySQL, so the driver
// name selects the statement.
type SQLStore struct {
	db     *sql.DB
	driver string
	nowFn  func() time.Time
}

// NewSQLStore creates a new SQLStore. Driver must be "postgres" or "mysql".
func NewSQLStore(db *sql.DB, driver string, nowFn func() time.Time) *SQLStore {
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}
	return &SQLStore{db: db, driver: driver, nowFn: nowFn}
}

// Get decodes the value stored under (collection, key) into dest.
func (s *SQLStore) Get(ctx context.Context, collection, key string, dest any) (bool, error) {
	querier := database.GetTx(ctx, s.db)

	query := `SELECT value FROM key_value_entries WHERE collection = $1 AND entry_key = $2`
	if s.driver == "mysql" {
		query = `SELECT value FROM key_value_entries WHERE collection = ? AND entry_key = ?`
	}

	var raw []byte
	err := querier.QueryRowContext(ctx, query, collection, key).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, apperrors.Wrap(err, "failed to get key value entry")
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, apperrors.Wrap(err, "failed to decode key value entry")
	}
	return true, nil
}

// Set stores value under (collection, key), overwriting any prior value.
func (s *SQLStore) Set(ctx context.Context, collection, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode key value entry")
	}

	querier := database.GetTx(ctx, s.db)

	query := `INSERT INTO key_value_entries (collection, entry_key, value, updated_at)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (collection, entry_key) DO UPDATE SET value = $3, updated_at = $4`
	if s.driver == "mysql" {
		query = `INSERT INTO key_value_entries (collection, entry_key, value, updated_at)
				 VALUES (?, ?, ?, ?)
				 ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = VALUES(updated_at)`
	}

	if _, err := querier.ExecContext(ctx, query, collection, key, raw, s.nowFn()); err != nil {
		return apperrors.Wrap(err, "failed to set key value entry")
	}
	return nil
}

// GetTime retrieves a stored timestamp, or nil when absent.
func (s *SQLStore) GetTime(ctx context.Context, collection, key string) (*time.Time, error) {
	var value time.Time
	found, err := s.Get(ctx, collection, key, &value)
	if err != nil || !found {
		return nil, err
	}
	return &value, nil
}

// SetTime stores a timestamp under (collection, key).
func (s *SQLStore) SetTime(ctx context.Context, collection, key string, value time.Time) error {
	return s.Set(ctx, collection, key, value)
}

// RemoveAll deletes every entry in a collection.
func (s *SQLStore) RemoveAll(ctx context.Context, collection string) error {
	querier := database.GetTx(ctx, s.db)

	query := `DELETE FROM key_value_entries WHERE collection = $1`
	if s.driver == "mysql" {
		query = `DELETE FROM key_value_entries WHERE collection = ?`
	}

	if _, err := querier.ExecContext(ctx, query, collection); err != nil {
		return apperrors.Wrap(err, "failed to remove collection")
	}
	return nil
}
