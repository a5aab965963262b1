package repository

import (
	"context"
	"database/sql"

	"github.com/go-sql-driver/mysql"

	"github.com/allisson/mediavault/internal/database"
	apperrors "github.com/allisson/mediavault/internal/errors"
	keysDomain "github.com/allisson/mediavault/internal/keys/domain"
	keysService "github.com/allisson/mediavault/internal/keys/service"
)

// MySQLRootKeyRepository implements root key persistence for MySQL.
type MySQLRootKeyRepository struct {
	db *sql.DB
}

// NewMySQLRootKeyRepository creates a new MySQLRootKeyRepository.
func NewMySQLRootKeyRepository(db *sql.DB) *MySQLRootKeyRepository {
	return &MySQLRootKeyRepository{db: db}
}

// Create inserts a wrapped root key. One key per purpose is allowed.
func (m *MySQLRootKeyRepository) Create(ctx context.Context, key *keysService.WrappedRootKey) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO root_keys (purpose, wrapped_key, created_at) VALUES (?, ?, ?)`

	_, err := querier.ExecContext(ctx, query, string(key.Purpose), key.WrappedKey, key.CreatedAt)
	if err != nil {
		if mysqlErr, ok := err.(*mysql.MySQLError); ok && mysqlErr.Number == 1062 {
			return apperrors.ErrConflict
		}
		return apperrors.Wrap(err, "failed to create root key")
	}
	return nil
}

// Get retrieves the wrapped root key for a purpose.
func (m *MySQLRootKeyRepository) Get(
	ctx context.Context,
	purpose keysDomain.Purpose,
) (*keysService.WrappedRootKey, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT purpose, wrapped_key, created_at FROM root_keys WHERE purpose = ?`

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
func (m *MySQLRootKeyRepository) Delete(ctx context.Context, purpose keysDomain.Purpose) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM root_keys WHERE purpose = ?`

	if _, err := querier.ExecContext(ctx, query, string(purpose)); err != nil {
		return apperrors.Wrap(err, "failed to delete root key")
	}
	return nil
}
