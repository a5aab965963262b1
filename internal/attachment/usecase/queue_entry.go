package usecase

import (
	"time"

	"github.com/google/uuid"
)

// QueueEntry is a pending-download queue row. A nil MinRetryTimestamp means
// the download is eligible to run immediately.
type QueueEntry struct {
	ID                uuid.UUID
	AttachmentID      int64
	MinRetryTimestamp *time.Time
	CreatedAt         time.Time
}
