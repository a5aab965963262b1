package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/mediavault/internal/attachment/usecase"
	"github.com/allisson/mediavault/internal/database"
	apperrors "github.com/allisson/mediavault/internal/errors"
)

// MySQLDownloadQueueRepository implements the pending-download queue for MySQL.
type MySQLDownloadQueueRepository struct {
	db *sql.DB
}

// NewMySQLDownloadQueueRepository creates a new MySQLDownloadQueueRepository.
func NewMySQLDownloadQueueRepository(db *sql.DB) *MySQLDownloadQueueRepository {
	return &MySQLDownloadQueueRepository{db: db}
}

// Enqueue records a pending download, replacing any existing entry.
func (m *MySQLDownloadQueueRepository) Enqueue(ctx context.Context, entry *usecase.QueueEntry) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO enqueued_downloads (id, attachment_id, min_retry_timestamp, created_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE min_retry_timestamp = VALUES(min_retry_timestamp)`

	_, err := querier.ExecContext(ctx, query,
		entry.ID, entry.AttachmentID, entry.MinRetryTimestamp, entry.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to enqueue download")
	}
	return nil
}

// Get retrieves the pending download for an attachment, or nil when none is queued.
func (m *MySQLDownloadQueueRepository) Get(ctx context.Context, attachmentID int64) (*usecase.QueueEntry, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, attachment_id, min_retry_timestamp, created_at
		FROM enqueued_downloads WHERE attachment_id = ?`

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
func (m *MySQLDownloadQueueRepository) Delete(ctx context.Context, attachmentID int64) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM enqueued_downloads WHERE attachment_id = ?`

	if _, err := querier.ExecContext(ctx, query, attachmentID); err != nil {
		return apperrors.Wrap(err, "failed to delete enqueued download")
	}
	return nil
}
