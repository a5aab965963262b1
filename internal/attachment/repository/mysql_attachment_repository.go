package repository

import (
	"context"
	"database/sql"

	"github.com/go-sql-driver/mysql"

	"github.com/allisson/mediavault/internal/attachment/domain"
	"github.com/allisson/mediavault/internal/database"
	apperrors "github.com/allisson/mediavault/internal/errors"
)

// MySQLAttachmentRepository implements attachment persistence for MySQL.
type MySQLAttachmentRepository struct {
	db *sql.DB
}

// NewMySQLAttachmentRepository creates a new MySQLAttachmentRepository.
func NewMySQLAttachmentRepository(db *sql.DB) *MySQLAttachmentRepository {
	return &MySQLAttachmentRepository{db: db}
}

// Create inserts an attachment record and fills in the generated id.
func (m *MySQLAttachmentRepository) Create(ctx context.Context, record *domain.Record) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO attachments (mime_type, encryption_key, blur_hash, media_name, unencrypted_byte_count,
		sha256_content_hash, stream_encrypted_byte_count, stream_unencrypted_byte_count, stream_content_type,
		stream_digest, local_relative_file_path,
		transit_cdn_number, transit_cdn_key, transit_upload_timestamp, transit_encryption_key,
		transit_encrypted_byte_count, transit_digest, transit_last_download_attempt,
		media_cdn_number, media_upload_era, media_last_download_attempt,
		thumbnail_cdn_number, thumbnail_upload_era, thumbnail_last_download_attempt,
		local_thumbnail_relative_file_path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(ctx, query,
		record.MIMEType, record.EncryptionKey, record.BlurHash, record.MediaName, record.UnencryptedByteCount,
		record.SHA256ContentHash, record.StreamEncryptedByteCount, record.StreamUnencryptedByteCount,
		record.StreamContentType, record.StreamDigest, record.LocalRelativeFilePath,
		record.TransitCDNNumber, record.TransitCDNKey, record.TransitUploadTimestamp, record.TransitEncryptionKey,
		record.TransitEncryptedByteCount, record.TransitDigest, record.TransitLastDownloadAttempt,
		record.MediaCDNNumber, record.MediaUploadEra, record.MediaLastDownloadAttempt,
		record.ThumbnailCDNNumber, record.ThumbnailUploadEra, record.ThumbnailLastDownloadAttempt,
		record.LocalThumbnailRelativeFilePath, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		if mysqlErr, ok := err.(*mysql.MySQLError); ok && mysqlErr.Number == 1062 {
			return apperrors.ErrConflict
		}
		return apperrors.Wrap(err, "failed to create attachment")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get attachment id")
	}
	record.ID = id
	return nil
}

// Get retrieves an attachment record by id.
func (m *MySQLAttachmentRepository) Get(ctx context.Context, id int64) (*domain.Record, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + attachmentColumns + ` FROM attachments WHERE id = ?`

	record, err := scanAttachment(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get attachment")
	}
	return record, nil
}

// Delete removes an attachment record.
func (m *MySQLAttachmentRepository) Delete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM attachments WHERE id = ?`

	if _, err := querier.ExecContext(ctx, query, id); err != nil {
		return apperrors.Wrap(err, "failed to delete attachment")
	}
	return nil
}
