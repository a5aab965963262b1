package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/mediavault/internal/attachment/domain"
)

// AttachmentService answers attachment state queries for orchestration code:
// which facets exist, how an upload should proceed and where a download
// stands. Facet mutation happens elsewhere (ingestion, upload and download
// completion); this service only reads and manages the pending queue.
type AttachmentService struct {
	attachments AttachmentRepository
	queue       DownloadQueueRepository
	metrics     MetricRecorder
	logger      *slog.Logger
	nowFn       func() time.Time
	reuseWindow time.Duration
}

// NewAttachmentService creates a new AttachmentService.
func NewAttachmentService(
	attachments AttachmentRepository,
	queue DownloadQueueRepository,
	metrics MetricRecorder,
	logger *slog.Logger,
	nowFn func() time.Time,
	reuseWindow time.Duration,
) *AttachmentService {
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}
	return &AttachmentService{
		attachments: attachments,
		queue:       queue,
		metrics:     metrics,
		logger:      logger,
		nowFn:       nowFn,
		reuseWindow: reuseWindow,
	}
}

// Get loads an attachment and builds its consistent view. Partially populated
// facets are logged and counted; the attachment comes back with those facets
// absent.
func (s *AttachmentService) Get(ctx context.Context, id int64) (*domain.Attachment, error) {
	record, err := s.attachments.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	attachment, err := domain.NewAttachment(record)
	if err != nil {
		return nil, err
	}

	for _, facet := range attachment.PartialFacets() {
		s.logger.Warn(
			"attachment facet partially populated, treating as absent",
			slog.Int64("attachment_id", id),
			slog.String("facet", facet),
		)
		s.metrics.PartialFacet(ctx, facet)
	}

	return attachment, nil
}

// TransitUploadStrategy decides how a transit tier upload for the attachment
// should proceed.
func (s *AttachmentService) TransitUploadStrategy(ctx context.Context, id int64) (domain.UploadStrategy, error) {
	attachment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return attachment.TransitUploadStrategy(s.nowFn(), s.reuseWindow), nil
}

// DownloadState computes the download state for the attachment's remote
// pointer. A queue lookup failure degrades to DownloadStateNone with a logged
// warning instead of blocking the caller on a transient store error.
func (s *AttachmentService) DownloadState(ctx context.Context, id int64) (domain.DownloadState, error) {
	attachment, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	pointer, ok := attachment.AsAnyPointer()
	if !ok {
		return domain.DownloadStateNone, nil
	}

	var queued *domain.QueueRecord
	entry, err := s.queue.Get(ctx, id)
	if err != nil {
		s.logger.Warn(
			"download queue lookup failed, reporting no download",
			slog.Int64("attachment_id", id),
			slog.String("error", err.Error()),
		)
		s.metrics.QueueLookupFailure(ctx)
		return domain.DownloadStateNone, nil
	}
	if entry != nil {
		queued = &domain.QueueRecord{MinRetryTimestamp: entry.MinRetryTimestamp}
	}

	return pointer.DownloadState(queued, s.nowFn()), nil
}

// EnqueueDownload records a pending download for the attachment, replacing
// any existing entry.
func (s *AttachmentService) EnqueueDownload(ctx context.Context, id int64, minRetryTimestamp *time.Time) error {
	if _, err := s.attachments.Get(ctx, id); err != nil {
		return err
	}

	entry := &QueueEntry{
		ID:                uuid.Must(uuid.NewV7()),
		AttachmentID:      id,
		MinRetryTimestamp: minRetryTimestamp,
		CreatedAt:         s.nowFn(),
	}
	return s.queue.Enqueue(ctx, entry)
}

// CancelDownload removes the pending download for the attachment.
func (s *AttachmentService) CancelDownload(ctx context.Context, id int64) error {
	return s.queue.Delete(ctx, id)
}
