package domain

import "time"

// Facet names, used when reporting partially populated facets.
const (
	FacetStream         = "stream"
	FacetTransitTier    = "transit_tier"
	FacetMediaTier      = "media_tier"
	FacetThumbnailMedia = "thumbnail_media_tier"
)

// StreamInfo describes the local encrypted stream for an attachment. All
// fields are mandatory; a partially populated row never produces a StreamInfo.
type StreamInfo struct {
	SHA256ContentHash     []byte
	EncryptedByteCount    uint32
	UnencryptedByteCount  uint32
	ContentType           string
	Digest                []byte
	LocalRelativeFilePath string
}

// TransitTierInfo describes the transit tier CDN object. The encryption key
// may differ from the attachment's own key when it was rotated for sending.
type TransitTierInfo struct {
	CDNNumber           uint32
	CDNKey              string
	UploadTimestamp     time.Time
	EncryptionKey       []byte
	EncryptedByteCount  uint32
	Digest              []byte
	LastDownloadAttempt *time.Time
}

// MediaTierInfo describes the media (backup) tier CDN object.
type MediaTierInfo struct {
	CDNNumber           uint32
	UploadEra           string
	LastDownloadAttempt *time.Time
}

// IsStale reports whether the object was uploaded under a different era than
// the current one, meaning the server may have garbage collected it.
func (i MediaTierInfo) IsStale(currentUploadEra string) bool {
	return i.UploadEra != currentUploadEra
}

// ThumbnailMediaTierInfo describes the media tier thumbnail object.
type ThumbnailMediaTierInfo struct {
	CDNNumber           uint32
	UploadEra           string
	LastDownloadAttempt *time.Time
}

// IsStale reports whether the thumbnail was uploaded under a different era
// than the current one.
func (i ThumbnailMediaTierInfo) IsStale(currentUploadEra string) bool {
	return i.UploadEra != currentUploadEra
}

// newStreamInfo builds the stream facet from a record, reporting whether the
// facet is fully present, wholly absent, or partially populated.
func newStreamInfo(r *Record) (*StreamInfo, facetState) {
	present := 0
	fields := []bool{
		len(r.SHA256ContentHash) > 0,
		r.StreamEncryptedByteCount != nil,
		r.StreamUnencryptedByteCount != nil,
		r.StreamContentType != nil,
		len(r.StreamDigest) > 0,
		r.LocalRelativeFilePath != nil,
	}
	for _, ok := range fields {
		if ok {
			present++
		}
	}
	switch present {
	case 0:
		return nil, facetAbsent
	case len(fields):
		return &StreamInfo{
			SHA256ContentHash:     r.SHA256ContentHash,
			EncryptedByteCount:    *r.StreamEncryptedByteCount,
			UnencryptedByteCount:  *r.StreamUnencryptedByteCount,
			ContentType:           *r.StreamContentType,
			Digest:                r.StreamDigest,
			LocalRelativeFilePath: *r.LocalRelativeFilePath,
		}, facetPresent
	default:
		return nil, facetPartial
	}
}

func newTransitTierInfo(r *Record) (*TransitTierInfo, facetState) {
	present := 0
	fields := []bool{
		r.TransitCDNNumber != nil,
		r.TransitCDNKey != nil,
		r.TransitUploadTimestamp != nil,
		len(r.TransitEncryptionKey) > 0,
		r.TransitEncryptedByteCount != nil,
		len(r.TransitDigest) > 0,
	}
	for _, ok := range fields {
		if ok {
			present++
		}
	}
	switch present {
	case 0:
		return nil, facetAbsent
	case len(fields):
		return &TransitTierInfo{
			CDNNumber:           *r.TransitCDNNumber,
			CDNKey:              *r.TransitCDNKey,
			UploadTimestamp:     *r.TransitUploadTimestamp,
			EncryptionKey:       r.TransitEncryptionKey,
			EncryptedByteCount:  *r.TransitEncryptedByteCount,
			Digest:              r.TransitDigest,
			LastDownloadAttempt: r.TransitLastDownloadAttempt,
		}, facetPresent
	default:
		return nil, facetPartial
	}
}

func newMediaTierInfo(r *Record) (*MediaTierInfo, facetState) {
	switch {
	case r.MediaCDNNumber == nil && r.MediaUploadEra == nil:
		return nil, facetAbsent
	case r.MediaCDNNumber != nil && r.MediaUploadEra != nil:
		return &MediaTierInfo{
			CDNNumber:           *r.MediaCDNNumber,
			UploadEra:           *r.MediaUploadEra,
			LastDownloadAttempt: r.MediaLastDownloadAttempt,
		}, facetPresent
	default:
		return nil, facetPartial
	}
}

func newThumbnailMediaTierInfo(r *Record) (*ThumbnailMediaTierInfo, facetState) {
	switch {
	case r.ThumbnailCDNNumber == nil && r.ThumbnailUploadEra == nil:
		return nil, facetAbsent
	case r.ThumbnailCDNNumber != nil && r.ThumbnailUploadEra != nil:
		return &ThumbnailMediaTierInfo{
			CDNNumber:           *r.ThumbnailCDNNumber,
			UploadEra:           *r.ThumbnailUploadEra,
			LastDownloadAttempt: r.ThumbnailLastDownloadAttempt,
		}, facetPresent
	default:
		return nil, facetPartial
	}
}

type facetState int

const (
	facetAbsent facetState = iota
	facetPresent
	facetPartial
)
