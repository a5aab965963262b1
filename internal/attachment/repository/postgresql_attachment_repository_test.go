package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/mediavault/internal/attachment/domain"
	"github.com/allisson/mediavault/internal/attachment/usecase"
	apperrors "github.com/allisson/mediavault/internal/errors"
)

var attachmentColumnList = []string{
	"id", "mime_type", "encryption_key", "blur_hash", "media_name", "unencrypted_byte_count",
	"sha256_content_hash", "stream_encrypted_byte_count", "stream_unencrypted_byte_count", "stream_content_type",
	"stream_digest", "local_relative_file_path",
	"transit_cdn_number", "transit_cdn_key", "transit_upload_timestamp", "transit_encryption_key",
	"transit_encrypted_byte_count", "transit_digest", "transit_last_download_attempt",
	"media_cdn_number", "media_upload_era", "media_last_download_attempt",
	"thumbnail_cdn_number", "thumbnail_upload_era", "thumbnail_last_download_attempt",
	"local_thumbnail_relative_file_path", "created_at", "updated_at",
}

func TestPostgreSQLAttachmentRepositoryGet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	t.Run("found with nullable facet columns", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows(attachmentColumnList).AddRow(
			int64(42), "image/jpeg", []byte("encryption-key"), nil, nil, nil,
			nil, nil, nil, nil,
			nil, nil,
			int64(2), "transit-cdn-key", now.Add(-time.Hour), []byte("transit-key"),
			int64(2048), []byte("transit-digest"), nil,
			nil, nil, nil,
			nil, nil, nil,
			nil, now, now,
		)

		mock.ExpectQuery("SELECT (.+) FROM attachments WHERE id").
			WithArgs(int64(42)).
			WillReturnRows(rows)

		repo := NewPostgreSQLAttachmentRepository(db)
		record, err := repo.Get(ctx, 42)
		require.NoError(t, err)

		assert.Equal(t, int64(42), record.ID)
		assert.Equal(t, "image/jpeg", record.MIMEType)
		assert.Nil(t, record.BlurHash)
		require.NotNil(t, record.TransitCDNNumber)
		assert.Equal(t, uint32(2), *record.TransitCDNNumber)
		require.NotNil(t, record.TransitCDNKey)
		assert.Equal(t, "transit-cdn-key", *record.TransitCDNKey)
		assert.Nil(t, record.MediaCDNNumber)

		attachment, err := domain.NewAttachment(record)
		require.NoError(t, err)
		assert.True(t, attachment.IsUploadedToTransitTier())
		assert.False(t, attachment.HasStream())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT (.+) FROM attachments WHERE id").
			WillReturnRows(sqlmock.NewRows(attachmentColumnList))

		repo := NewPostgreSQLAttachmentRepository(db)
		_, err = repo.Get(ctx, 99)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestPostgreSQLAttachmentRepositoryCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO attachments").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	repo := NewPostgreSQLAttachmentRepository(db)
	record := &domain.Record{
		MIMEType:      "image/jpeg",
		EncryptionKey: []byte("encryption-key"),
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), record))
	assert.Equal(t, int64(7), record.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLDownloadQueueRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	t.Run("get returns nil when nothing is queued", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT (.+) FROM enqueued_downloads WHERE attachment_id").
			WillReturnRows(sqlmock.NewRows([]string{"id", "attachment_id", "min_retry_timestamp", "created_at"}))

		repo := NewPostgreSQLDownloadQueueRepository(db)
		entry, err := repo.Get(ctx, 42)
		require.NoError(t, err)
		assert.Nil(t, entry)
	})

	t.Run("get returns queued entry", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		id := uuid.Must(uuid.NewV7())
		rows := sqlmock.NewRows([]string{"id", "attachment_id", "min_retry_timestamp", "created_at"}).
			AddRow(id.String(), int64(42), now.Add(time.Hour), now)

		mock.ExpectQuery("SELECT (.+) FROM enqueued_downloads WHERE attachment_id").
			WithArgs(int64(42)).
			WillReturnRows(rows)

		repo := NewPostgreSQLDownloadQueueRepository(db)
		entry, err := repo.Get(ctx, 42)
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, id, entry.ID)
		require.NotNil(t, entry.MinRetryTimestamp)
		assert.True(t, now.Add(time.Hour).Equal(*entry.MinRetryTimestamp))
	})

	t.Run("enqueue upserts", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		entry := &usecase.QueueEntry{
			ID:           uuid.Must(uuid.NewV7()),
			AttachmentID: 42,
			CreatedAt:    now,
		}

		mock.ExpectExec("INSERT INTO enqueued_downloads").
			WithArgs(entry.ID, entry.AttachmentID, nil, entry.CreatedAt).
			WillReturnResult(sqlmock.NewResult(1, 1))

		repo := NewPostgreSQLDownloadQueueRepository(db)
		require.NoError(t, repo.Enqueue(ctx, entry))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
