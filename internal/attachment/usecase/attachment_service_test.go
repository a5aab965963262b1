package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/mediavault/internal/attachment/domain"
	apperrors "github.com/allisson/mediavault/internal/errors"
)

func ptr[T any](v T) *T { return &v }

type fakeAttachmentRepo struct {
	records map[int64]*domain.Record
}

func (f *fakeAttachmentRepo) Create(_ context.Context, record *domain.Record) error {
	record.ID = int64(len(f.records) + 1)
	f.records[record.ID] = record
	return nil
}

func (f *fakeAttachmentRepo) Get(_ context.Context, id int64) (*domain.Record, error) {
	record, ok := f.records[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return record, nil
}

func (f *fakeAttachmentRepo) Delete(_ context.Context, id int64) error {
	delete(f.records, id)
	return nil
}

type fakeQueueRepo struct {
	entries map[int64]*QueueEntry
	getErr  error
}

func (f *fakeQueueRepo) Enqueue(_ context.Context, entry *QueueEntry) error {
	f.entries[entry.AttachmentID] = entry
	return nil
}

func (f *fakeQueueRepo) Get(_ context.Context, attachmentID int64) (*QueueEntry, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.entries[attachmentID], nil
}

func (f *fakeQueueRepo) Delete(_ context.Context, attachmentID int64) error {
	delete(f.entries, attachmentID)
	return nil
}

type fakeAttachmentMetrics struct {
	queueLookupFailures int
	partialFacets       []string
}

func (f *fakeAttachmentMetrics) QueueLookupFailure(_ context.Context) { f.queueLookupFailures++ }
func (f *fakeAttachmentMetrics) PartialFacet(_ context.Context, facet string) {
	f.partialFacets = append(f.partialFacets, facet)
}

func transitRecord(now time.Time) *domain.Record {
	return &domain.Record{
		ID:                        1,
		MIMEType:                  "image/jpeg",
		EncryptionKey:             []byte("0123456789abcdef0123456789abcdef"),
		TransitCDNNumber:          ptr(uint32(2)),
		TransitCDNKey:             ptr("transit-cdn-key"),
		TransitUploadTimestamp:    ptr(now.Add(-time.Hour)),
		TransitEncryptionKey:      []byte("transit-key"),
		TransitEncryptedByteCount: ptr(uint32(2048)),
		TransitDigest:             []byte("transit-digest"),
	}
}

func newTestService(now time.Time) (*AttachmentService, *fakeAttachmentRepo, *fakeQueueRepo, *fakeAttachmentMetrics) {
	attachments := &fakeAttachmentRepo{records: map[int64]*domain.Record{}}
	queue := &fakeQueueRepo{entries: map[int64]*QueueEntry{}}
	metrics := &fakeAttachmentMetrics{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewAttachmentService(attachments, queue, metrics, logger,
		func() time.Time { return now }, 24*time.Hour)
	return service, attachments, queue, metrics
}

func TestAttachmentServiceGet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	t.Run("not found", func(t *testing.T) {
		service, _, _, _ := newTestService(now)
		_, err := service.Get(ctx, 99)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("partial facet is reported", func(t *testing.T) {
		service, attachments, _, metrics := newTestService(now)
		attachments.records[1] = &domain.Record{
			ID:            1,
			MIMEType:      "image/jpeg",
			EncryptionKey: []byte("key"),
			TransitCDNKey: ptr("dangling"),
		}

		attachment, err := service.Get(ctx, 1)
		require.NoError(t, err)
		assert.False(t, attachment.IsUploadedToTransitTier())
		assert.Equal(t, []string{domain.FacetTransitTier}, metrics.partialFacets)
	})
}

func TestAttachmentServiceTransitUploadStrategy(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	service, attachments, _, _ := newTestService(now)
	attachments.records[1] = transitRecord(now)

	strategy, err := service.TransitUploadStrategy(ctx, 1)
	require.NoError(t, err)

	// No local stream: nothing can be uploaded from this device.
	assert.IsType(t, domain.CannotUpload{}, strategy)
}

func TestAttachmentServiceDownloadState(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	t.Run("queued download", func(t *testing.T) {
		service, attachments, queue, _ := newTestService(now)
		attachments.records[1] = transitRecord(now)
		queue.entries[1] = &QueueEntry{AttachmentID: 1, MinRetryTimestamp: ptr(now.Add(-time.Second))}

		state, err := service.DownloadState(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.DownloadStateEnqueuedOrDownloading, state)
	})

	t.Run("no remote pointer", func(t *testing.T) {
		service, attachments, _, _ := newTestService(now)
		attachments.records[1] = &domain.Record{
			ID:            1,
			MIMEType:      "image/jpeg",
			EncryptionKey: []byte("key"),
		}

		state, err := service.DownloadState(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.DownloadStateNone, state)
	})

	t.Run("queue lookup failure degrades to none", func(t *testing.T) {
		service, attachments, queue, metrics := newTestService(now)
		record := transitRecord(now)
		record.TransitLastDownloadAttempt = ptr(now.Add(-time.Hour))
		attachments.records[1] = record
		queue.getErr = errors.New("store unavailable")

		state, err := service.DownloadState(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.DownloadStateNone, state)
		assert.Equal(t, 1, metrics.queueLookupFailures)
	})

	t.Run("failed after attempt with empty queue", func(t *testing.T) {
		service, attachments, _, _ := newTestService(now)
		record := transitRecord(now)
		record.TransitLastDownloadAttempt = ptr(now.Add(-time.Hour))
		attachments.records[1] = record

		state, err := service.DownloadState(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.DownloadStateFailed, state)
	})
}

func TestAttachmentServiceEnqueueDownload(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	t.Run("creates queue entry", func(t *testing.T) {
		service, attachments, queue, _ := newTestService(now)
		attachments.records[1] = transitRecord(now)

		require.NoError(t, service.EnqueueDownload(ctx, 1, nil))
		entry := queue.entries[1]
		require.NotNil(t, entry)
		assert.Equal(t, int64(1), entry.AttachmentID)
		assert.Nil(t, entry.MinRetryTimestamp)
		assert.Equal(t, now, entry.CreatedAt)
	})

	t.Run("unknown attachment", func(t *testing.T) {
		service, _, _, _ := newTestService(now)
		err := service.EnqueueDownload(ctx, 99, nil)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestAttachmentServiceCancelDownload(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	service, attachments, queue, _ := newTestService(now)
	attachments.records[1] = transitRecord(now)
	queue.entries[1] = &QueueEntry{AttachmentID: 1}

	require.NoError(t, service.CancelDownload(ctx, 1))
	assert.Nil(t, queue.entries[1])
}
