// Package domain models attachments and their storage facets.
//
// An attachment's bytes can live in up to four places: a local encrypted
// stream, a transit tier CDN object, a media (backup) tier CDN object and a
// media tier thumbnail. Each place is a facet whose fields are all present or
// all absent. The raw database row is nullable column soup; the Attachment
// type is the consistent view built on top of it.
package domain

import "time"

// Record is the flat database row for an attachment. Facet fields are
// nullable columns; consistency is enforced at Attachment construction, not
// at the row level.
type Record struct {
	ID            int64
	MIMEType      string
	EncryptionKey []byte
	BlurHash      *string

	// MediaName is set once the attachment's full content hash is known
	// (after download or restore) and never changes afterwards.
	MediaName *string

	// UnencryptedByteCount is the plaintext size advertised by the sender,
	// available even before the attachment is downloaded.
	UnencryptedByteCount *uint32

	// Stream facet columns.
	SHA256ContentHash          []byte
	StreamEncryptedByteCount   *uint32
	StreamUnencryptedByteCount *uint32
	StreamContentType          *string
	StreamDigest               []byte
	LocalRelativeFilePath      *string

	// Transit tier facet columns.
	TransitCDNNumber           *uint32
	TransitCDNKey              *string
	TransitUploadTimestamp     *time.Time
	TransitEncryptionKey       []byte
	TransitEncryptedByteCount  *uint32
	TransitDigest              []byte
	TransitLastDownloadAttempt *time.Time

	// Media tier facet columns.
	MediaCDNNumber           *uint32
	MediaUploadEra           *string
	MediaLastDownloadAttempt *time.Time

	// Thumbnail facet columns. The local thumbnail path is independent of
	// the remote thumbnail facet.
	ThumbnailCDNNumber             *uint32
	ThumbnailUploadEra             *string
	ThumbnailLastDownloadAttempt   *time.Time
	LocalThumbnailRelativeFilePath *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
