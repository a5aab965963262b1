package domain

// CopyRequest describes a transit tier object to copy onto the media tier.
type CopyRequest struct {
	// SourceCDNNumber is the CDN hosting the transit tier object.
	SourceCDNNumber uint32 `json:"source_cdn"`
	// SourceKey is the transit tier object key.
	SourceKey string `json:"source_key"`
	// MediaID is the 15-byte media identifier for the destination object.
	MediaID []byte `json:"media_id"`
	// ObjectLength is the encrypted size of the source object in bytes.
	ObjectLength uint32 `json:"object_length"`
}
