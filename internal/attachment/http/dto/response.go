// Package dto defines the wire representations for attachment endpoints.
package dto

import (
	"time"

	"github.com/allisson/mediavault/internal/attachment/domain"
)

// AttachmentResponse summarizes an attachment's facet state.
type AttachmentResponse struct {
	ID                        int64    `json:"id"`
	MIMEType                  string   `json:"mime_type"`
	BlurHash                  *string  `json:"blur_hash,omitempty"`
	MediaName                 *string  `json:"media_name,omitempty"`
	HasStream                 bool     `json:"has_stream"`
	IsUploadedToTransitTier   bool     `json:"is_uploaded_to_transit_tier"`
	HasMediaTierInfo          bool     `json:"has_media_tier_info"`
	HasThumbnailMediaTierInfo bool     `json:"has_thumbnail_media_tier_info"`
	FullsizeByteCount         *uint32  `json:"fullsize_byte_count,omitempty"`
	PartialFacets             []string `json:"partial_facets,omitempty"`
}

// NewAttachmentResponse builds the response from an attachment.
func NewAttachmentResponse(attachment *domain.Attachment) AttachmentResponse {
	response := AttachmentResponse{
		ID:                        attachment.ID,
		MIMEType:                  attachment.MIMEType,
		BlurHash:                  attachment.BlurHash,
		MediaName:                 attachment.MediaName,
		HasStream:                 attachment.HasStream(),
		IsUploadedToTransitTier:   attachment.IsUploadedToTransitTier(),
		HasMediaTierInfo:          attachment.HasMediaTierInfo(),
		HasThumbnailMediaTierInfo: attachment.HasThumbnailMediaTierInfo(),
		PartialFacets:             attachment.PartialFacets(),
	}
	if pointer, ok := attachment.AsAnyPointer(); ok {
		response.FullsizeByteCount = pointer.FullsizeUnencryptedByteCount()
	}
	return response
}

// UploadStrategyResponse reports the selected upload strategy.
type UploadStrategyResponse struct {
	Strategy string `json:"strategy"`

	// TransitCDNNumber and TransitCDNKey are set when the strategy reuses an
	// existing transit tier upload.
	TransitCDNNumber *uint32 `json:"transit_cdn_number,omitempty"`
	TransitCDNKey    *string `json:"transit_cdn_key,omitempty"`
}

// NewUploadStrategyResponse builds the response from a strategy decision.
func NewUploadStrategyResponse(strategy domain.UploadStrategy) UploadStrategyResponse {
	switch s := strategy.(type) {
	case domain.CannotUpload:
		return UploadStrategyResponse{Strategy: "cannot_upload"}
	case domain.ReuseExistingUpload:
		return UploadStrategyResponse{
			Strategy:         "reuse_existing_upload",
			TransitCDNNumber: &s.Transit.CDNNumber,
			TransitCDNKey:    &s.Transit.CDNKey,
		}
	case domain.ReuseStreamEncryption:
		return UploadStrategyResponse{Strategy: "reuse_stream_encryption"}
	case domain.FreshUpload:
		return UploadStrategyResponse{Strategy: "fresh_upload"}
	default:
		return UploadStrategyResponse{Strategy: "unknown"}
	}
}

// DownloadStateResponse reports the computed download state.
type DownloadStateResponse struct {
	State domain.DownloadState `json:"state"`
}

// EnqueueDownloadRequest is the body for enqueueing a download.
type EnqueueDownloadRequest struct {
	MinRetryTimestamp *time.Time `json:"min_retry_timestamp,omitempty"`
}
