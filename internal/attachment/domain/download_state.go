package domain

import "time"

// DownloadState describes where a remote pointer stands in the download
// lifecycle.
type DownloadState string

const (
	// DownloadStateNone means no download was ever attempted or enqueued.
	DownloadStateNone DownloadState = "none"
	// DownloadStateEnqueuedOrDownloading means a download is pending or running.
	DownloadStateEnqueuedOrDownloading DownloadState = "enqueued_or_downloading"
	// DownloadStateFailed means the last attempt failed and nothing is queued.
	DownloadStateFailed DownloadState = "failed"
)

// QueueRecord is a pending-download queue entry for an attachment. A nil
// MinRetryTimestamp means the download is eligible immediately.
type QueueRecord struct {
	MinRetryTimestamp *time.Time
}

// DownloadState computes the download state from the queue lookup result.
// A present local stream means the caller should not have asked; the queued
// state is returned as the safe answer. A queue record whose retry time is
// still in the future falls through to the attempt bookkeeping.
func (p *AnyPointer) DownloadState(queued *QueueRecord, now time.Time) DownloadState {
	if p.attachment.HasStream() {
		return DownloadStateEnqueuedOrDownloading
	}
	if queued != nil && (queued.MinRetryTimestamp == nil || !queued.MinRetryTimestamp.After(now)) {
		return DownloadStateEnqueuedOrDownloading
	}
	if p.LastDownloadAttempt() != nil {
		return DownloadStateFailed
	}
	return DownloadStateNone
}
