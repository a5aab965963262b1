package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/mediavault/internal/attachment/usecase"
	"github.com/allisson/mediavault/internal/database"
	apperrors "github.com/allisson/mediavault/internal/errors"
)

// PostgreSQLDownloadQueueRepository implements the pending-download queue for
// PostgreSQL. One entry per attachment; enqueueing again replaces the entry.
type PostgreSQLDownloadQueueRepository struct {
	db *sql.DB
}

// NewPostgreSQLDownloadQueueRepository creates a new PostgreSQLDownloadQueueRepository.
func NewPostgreSQLDownloadQueueRepository(db *sql.DB) *PostgreSQLDownloadQueueRepository {
	return &PostgreSQLDownloadQueueRepository{db: db}
}

// Enqueue records a pending download, replacing any existing entry.
func (p *PostgreSQLDownloadQueueRepository) Enqueue(ctx context.Context, entry *usecase.QueueEntry) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO enqueued_downloads (id, attachment_id, min_retry_timestamp, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (attachment_id) DO UPDATE SET min_retry_timestamp = $3`

	_, err := querier.ExecContext(ctx, query,
		entry.ID, entry.AttachmentID, entry.MinRetryTimestamp, entry.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to enqueue download")
	}
	return nil
}

// Get retrieves the pending download for an attachment, or nil when none is queued.
func (p *PostgreSQLDownloadQueueRepository) Get(ctx context.Context, attachmentID int64) (*usecase.QueueEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, attachment_id, min_retry_timestamp, created_at
		FROM enqueued_downloads WHERE attachment_id = $1`

	var entry usecase.QueueEntry
	err := querier.QueryRowContext(ctx, query, attachmentID).Scan(
		&entry.ID,
		&entry.AttachmentID,
		&entry.MinRetryTimestamp,
		&entry.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "failed to get enqueued download")
	}
	return &entry, nil
}

// Delete removes the pending download for an attachment.
func (p *PostgreSQLDownloadQueueRepository) Delete(ctx context.Context, attachmentID int64) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM enqueued_downloads WHERE attachment_id = $1`

	if _, err := querier.ExecContext(ctx, query, attachmentID); err != nil {
		return apperrors.Wrap(err, "failed to delete enqueued download")
	}
	return nil
}
