package domain

import (
	"encoding/hex"
	"fmt"
	"time"

	apperrors "github.com/allisson/mediavault/internal/errors"
)

// ThumbnailMediaNameSuffix distinguishes a thumbnail's media name from its
// fullsize counterpart on the media tier.
const ThumbnailMediaNameSuffix = "_thumbnail"

// Attachment is the consistent view over a Record: core fields validated,
// each facet either fully materialized or absent. Partially populated facets
// are dropped at construction and reported so callers can log them.
type Attachment struct {
	ID                   int64
	MIMEType             string
	EncryptionKey        []byte
	BlurHash             *string
	MediaName            *string
	UnencryptedByteCount *uint32
	LocalThumbnailPath   *string

	stream    *StreamInfo
	transit   *TransitTierInfo
	media     *MediaTierInfo
	thumbnail *ThumbnailMediaTierInfo

	partialFacets []string
}

// NewAttachment builds an Attachment from a record. It fails when required
// core fields are missing. A partially populated facet does not fail
// construction; it is treated as absent and listed in PartialFacets.
func NewAttachment(r *Record) (*Attachment, error) {
	if r == nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "record is nil")
	}
	if r.MIMEType == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "mime type is required")
	}
	if len(r.EncryptionKey) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "encryption key is required")
	}

	attachment := &Attachment{
		ID:                   r.ID,
		MIMEType:             r.MIMEType,
		EncryptionKey:        r.EncryptionKey,
		BlurHash:             r.BlurHash,
		MediaName:            r.MediaName,
		UnencryptedByteCount: r.UnencryptedByteCount,
		LocalThumbnailPath:   r.LocalThumbnailRelativeFilePath,
	}

	var state facetState
	if attachment.stream, state = newStreamInfo(r); state == facetPartial {
		attachment.partialFacets = append(attachment.partialFacets, FacetStream)
	}
	if attachment.transit, state = newTransitTierInfo(r); state == facetPartial {
		attachment.partialFacets = append(attachment.partialFacets, FacetTransitTier)
	}
	if attachment.media, state = newMediaTierInfo(r); state == facetPartial {
		attachment.partialFacets = append(attachment.partialFacets, FacetMediaTier)
	}
	if attachment.thumbnail, state = newThumbnailMediaTierInfo(r); state == facetPartial {
		attachment.partialFacets = append(attachment.partialFacets, FacetThumbnailMedia)
	}

	return attachment, nil
}

// PartialFacets lists facets that were partially populated in the underlying
// record and therefore treated as absent.
func (a *Attachment) PartialFacets() []string {
	return a.partialFacets
}

// HasStream reports whether the local encrypted stream facet is present.
func (a *Attachment) HasStream() bool { return a.stream != nil }

// IsUploadedToTransitTier reports whether the transit tier facet is present.
func (a *Attachment) IsUploadedToTransitTier() bool { return a.transit != nil }

// HasMediaTierInfo reports whether the media tier facet is present.
func (a *Attachment) HasMediaTierInfo() bool { return a.media != nil }

// HasThumbnailMediaTierInfo reports whether the thumbnail facet is present.
func (a *Attachment) HasThumbnailMediaTierInfo() bool { return a.thumbnail != nil }

// ComputedMediaName derives the stable media tier object name from the
// stream facet: hex of the full content hash concatenated with the
// attachment's encryption key. Only available once the stream exists.
func (a *Attachment) ComputedMediaName() (string, error) {
	if a.stream == nil {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "media name requires a stream facet")
	}
	return MediaName(a.stream.SHA256ContentHash, a.EncryptionKey), nil
}

// MediaName derives the media tier object name from a content hash and
// encryption key. Deterministic so every device derives the same name.
func MediaName(sha256ContentHash, encryptionKey []byte) string {
	combined := make([]byte, 0, len(sha256ContentHash)+len(encryptionKey))
	combined = append(combined, sha256ContentHash...)
	combined = append(combined, encryptionKey...)
	return hex.EncodeToString(combined)
}

// ThumbnailMediaName derives the thumbnail object name for a fullsize media name.
func ThumbnailMediaName(mediaName string) string {
	return fmt.Sprintf("%s%s", mediaName, ThumbnailMediaNameSuffix)
}

// TransitUploadStrategy decides how to satisfy a transit tier upload request.
// Decision order matters: reusing an unexpired remote copy beats everything,
// and stream encryption is only reusable while the attachment has never been
// uploaded to either tier.
func (a *Attachment) TransitUploadStrategy(now time.Time, reuseWindow time.Duration) UploadStrategy {
	if a.stream == nil {
		return CannotUpload{}
	}
	if a.transit != nil && now.Sub(a.transit.UploadTimestamp) <= reuseWindow {
		return ReuseExistingUpload{Transit: *a.transit}
	}
	if a.transit == nil && a.media == nil {
		return ReuseStreamEncryption{Stream: *a.stream}
	}
	return FreshUpload{Stream: *a.stream}
}
