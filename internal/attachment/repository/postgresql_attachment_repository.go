// Package repository implements persistence for attachment records and the
// pending-download queue.
package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/allisson/mediavault/internal/attachment/domain"
	"github.com/allisson/mediavault/internal/database"
	apperrors "github.com/allisson/mediavault/internal/errors"
)

const attachmentColumns = `id, mime_type, encryption_key, blur_hash, media_name, unencrypted_byte_count,
	sha256_content_hash, stream_encrypted_byte_count, stream_unencrypted_byte_count, stream_content_type,
	stream_digest, local_relative_file_path,
	transit_cdn_number, transit_cdn_key, transit_upload_timestamp, transit_encryption_key,
	transit_encrypted_byte_count, transit_digest, transit_last_download_attempt,
	media_cdn_number, media_upload_era, media_last_download_attempt,
	thumbnail_cdn_number, thumbnail_upload_era, thumbnail_last_download_attempt,
	local_thumbnail_relative_file_path, created_at, updated_at`

// PostgreSQLAttachmentRepository implements attachment persistence for PostgreSQL.
type PostgreSQLAttachmentRepository struct {
	db *sql.DB
}

// NewPostgreSQLAttachmentRepository creates a new PostgreSQLAttachmentRepository.
func NewPostgreSQLAttachmentRepository(db *sql.DB) *PostgreSQLAttachmentRepository {
	return &PostgreSQLAttachmentRepository{db: db}
}

// Create inserts an attachment record and fills in the generated id.
func (p *PostgreSQLAttachmentRepository) Create(ctx context.Context, record *domain.Record) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO attachments (mime_type, encryption_key, blur_hash, media_name, unencrypted_byte_count,
		sha256_content_hash, stream_encrypted_byte_count, stream_unencrypted_byte_count, stream_content_type,
		stream_digest, local_relative_file_path,
		transit_cdn_number, transit_cdn_key, transit_upload_timestamp, transit_encryption_key,
		transit_encrypted_byte_count, transit_digest, transit_last_download_attempt,
		media_cdn_number, media_upload_era, media_last_download_attempt,
		thumbnail_cdn_number, thumbnail_upload_era, thumbnail_last_download_attempt,
		local_thumbnail_relative_file_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27)
		RETURNING id`

	err := querier.QueryRowContext(ctx, query,
		record.MIMEType, record.EncryptionKey, record.BlurHash, record.MediaName, record.UnencryptedByteCount,
		record.SHA256ContentHash, record.StreamEncryptedByteCount, record.StreamUnencryptedByteCount,
		record.StreamContentType, record.StreamDigest, record.LocalRelativeFilePath,
		record.TransitCDNNumber, record.TransitCDNKey, record.TransitUploadTimestamp, record.TransitEncryptionKey,
		record.TransitEncryptedByteCount, record.TransitDigest, record.TransitLastDownloadAttempt,
		record.MediaCDNNumber, record.MediaUploadEra, record.MediaLastDownloadAttempt,
		record.ThumbnailCDNNumber, record.ThumbnailUploadEra, record.ThumbnailLastDownloadAttempt,
		record.LocalThumbnailRelativeFilePath, record.CreatedAt, record.UpdatedAt,
	).Scan(&record.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return apperrors.ErrConflict
		}
		return apperrors.Wrap(err, "failed to create attachment")
	}
	return nil
}

// Get retrieves an attachment record by id.
func (p *PostgreSQLAttachmentRepository) Get(ctx context.Context, id int64) (*domain.Record, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + attachmentColumns + ` FROM attachments WHERE id = $1`

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
func (p *PostgreSQLAttachmentRepository) Delete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM attachments WHERE id = $1`

	if _, err := querier.ExecContext(ctx, query, id); err != nil {
		return apperrors.Wrap(err, "failed to delete attachment")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttachment(row rowScanner) (*domain.Record, error) {
	var record domain.Record
	err := row.Scan(
		&record.ID, &record.MIMEType, &record.EncryptionKey, &record.BlurHash, &record.MediaName,
		&record.UnencryptedByteCount,
		&record.SHA256ContentHash, &record.StreamEncryptedByteCount, &record.StreamUnencryptedByteCount,
		&record.StreamContentType, &record.StreamDigest, &record.LocalRelativeFilePath,
		&record.TransitCDNNumber, &record.TransitCDNKey, &record.TransitUploadTimestamp,
		&record.TransitEncryptionKey, &record.TransitEncryptedByteCount, &record.TransitDigest,
		&record.TransitLastDownloadAttempt,
		&record.MediaCDNNumber, &record.MediaUploadEra, &record.MediaLastDownloadAttempt,
		&record.ThumbnailCDNNumber, &record.ThumbnailUploadEra, &record.ThumbnailLastDownloadAttempt,
		&record.LocalThumbnailRelativeFilePath, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
