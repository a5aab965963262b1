// Package usecase exposes attachment state queries: facet inspection, upload
// strategy selection and download state computation.
package usecase

import (
	"context"

	"github.com/allisson/mediavault/internal/attachment/domain"
)

// AttachmentRepository persists attachment records.
type AttachmentRepository interface {
	// Create stores a new attachment record and fills in its id.
	Create(ctx context.Context, record *domain.Record) error

	// Get retrieves an attachment record by id. Returns ErrNotFound if absent.
	Get(ctx context.Context, id int64) (*domain.Record, error)

	// Delete removes an attachment record.
	Delete(ctx context.Context, id int64) error
}

// DownloadQueueRepository tracks pending downloads per attachment.
type DownloadQueueRepository interface {
	// Enqueue records a pending download for an attachment, replacing any
	// existing entry.
	Enqueue(ctx context.Context, entry *QueueEntry) error

	// Get retrieves the pending download for an attachment, or nil when none
	// is queued.
	Get(ctx context.Context, attachmentID int64) (*QueueEntry, error)

	// Delete removes the pending download for an attachment.
	Delete(ctx context.Context, attachmentID int64) error
}

// MetricRecorder records attachment query outcomes.
type MetricRecorder interface {
	QueueLookupFailure(ctx context.Context)
	PartialFacet(ctx context.Context, facet string)
}
