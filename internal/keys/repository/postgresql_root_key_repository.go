// Package repository implements persistence for wrapped root backup keys.
// Only keeper-wrapped key material is ever stored; plaintext root keys never
// reach the database.
package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/allisson/mediavault/internal/database"
	apperrors "github.com/allisson/mediavault/internal/errors"
	keysDomain "github.com/allisson/mediavault/internal/keys/domain"
	keysService "github.com/allisson/mediavault/internal/keys/service"
)

// PostgreSQLRootKeyRepository implements root key persistence for PostgreSQL.
type PostgreSQLRootKeyRepository struct {
	db *sql.DB
}

// NewPostgreSQLRootKeyRepository creates a new PostgreSQLRootKeyRepository.
func NewPostgreSQLRootKeyRepository(db *sql.DB) *PostgreSQLRootKeyRepository {
	return &PostgreSQLRootKeyRepository{db: db}
}

// Create inserts a wrapped root key. One key per purpose is allowed.
func (p *PostgreSQLRootKeyRepository) Create(ctx context.Context, key *keysService.WrappedRootKey) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO root_keys (purpose, wrapped_key, created_at) VALUES ($1, $2, $3)`

	_, err := querier.ExecContext(ctx, query, string(key.Purpose), key.WrappedKey, key.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return apperrors.ErrConflict
		}
		return apperrors.Wrap(err, "failed to create root key")
	}
	return nil
}

// Get retrieves the wrapped root key for a purpose.
func (p *PostgreSQLRootKeyRepository) Get(
	ctx context.Context,
	purpose keysDomain.Purpose,
) (*keysService.WrappedRootKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT purpose, wrapped_key, created_at FROM root_keys WHERE purpose = $1`

	var key keysService.WrappedRootKey
	err := querier.QueryRowContext(ctx, query, string(purpose)).Scan(
		&key.Purpose,
		&key.WrappedKey,
		&key.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get root key")
	}

	return &key, nil
}

// Delete removes the wrapped root key for a purpose.
func (p *PostgreSQLRootKeyRepository) Delete(ctx context.Context, purpose keysDomain.Purpose) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM root_keys WHERE purpose = $1`

	if _, err := querier.ExecContext(ctx, query, string(purpose)); err != nil {
		return apperrors.Wrap(err, "failed to delete root key")
	}
	return nil
}
