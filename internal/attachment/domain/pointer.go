package domain

import "time"

// PointerSource identifies which facet backs a generic remote pointer.
type PointerSource string

const (
	PointerSourceTransit PointerSource = "transit"
	PointerSourceMedia   PointerSource = "media"
)

// Stream is the read-only view over a present stream facet.
type Stream struct {
	attachment *Attachment
	info       StreamInfo
}

// AsStream returns the stream view, or false when the facet is absent.
func (a *Attachment) AsStream() (*Stream, bool) {
	if a.stream == nil {
		return nil, false
	}
	return &Stream{attachment: a, info: *a.stream}, true
}

// Info returns the underlying stream facet.
func (s *Stream) Info() StreamInfo { return s.info }

// TransitPointer is the read-only view over a present transit tier facet.
type TransitPointer struct {
	attachment *Attachment
	info       TransitTierInfo
}

// AsTransitPointer returns the transit tier view, or false when absent.
func (a *Attachment) AsTransitPointer() (*TransitPointer, bool) {
	if a.transit == nil {
		return nil, false
	}
	return &TransitPointer{attachment: a, info: *a.transit}, true
}

// Info returns the underlying transit tier facet.
func (p *TransitPointer) Info() TransitTierInfo { return p.info }

// MediaPointer is the read-only view over a present media tier facet.
type MediaPointer struct {
	attachment *Attachment
	info       MediaTierInfo
}

// AsMediaPointer returns the media tier view, or false when absent.
func (a *Attachment) AsMediaPointer() (*MediaPointer, bool) {
	if a.media == nil {
		return nil, false
	}
	return &MediaPointer{attachment: a, info: *a.media}, true
}

// Info returns the underlying media tier facet.
func (p *MediaPointer) Info() MediaTierInfo { return p.info }

// ThumbnailPointer is the read-only view over a present thumbnail facet.
type ThumbnailPointer struct {
	attachment *Attachment
	info       ThumbnailMediaTierInfo
}

// AsThumbnailPointer returns the thumbnail view, or false when absent.
func (a *Attachment) AsThumbnailPointer() (*ThumbnailPointer, bool) {
	if a.thumbnail == nil {
		return nil, false
	}
	return &ThumbnailPointer{attachment: a, info: *a.thumbnail}, true
}

// Info returns the underlying thumbnail facet.
func (p *ThumbnailPointer) Info() ThumbnailMediaTierInfo { return p.info }

// AnyPointer is the generic "some remote fullsize copy exists" view. The
// media tier backs it when present, the transit tier otherwise.
type AnyPointer struct {
	attachment *Attachment
	source     PointerSource
}

// AsAnyPointer returns a generic remote pointer, or false when the attachment
// has no remote fullsize copy at all.
func (a *Attachment) AsAnyPointer() (*AnyPointer, bool) {
	switch {
	case a.media != nil:
		return &AnyPointer{attachment: a, source: PointerSourceMedia}, true
	case a.transit != nil:
		return &AnyPointer{attachment: a, source: PointerSourceTransit}, true
	default:
		return nil, false
	}
}

// Source reports which facet backs this pointer.
func (p *AnyPointer) Source() PointerSource { return p.source }

// AttachmentID returns the id of the attachment behind the pointer.
func (p *AnyPointer) AttachmentID() int64 { return p.attachment.ID }

// LastDownloadAttempt returns the backing facet's last download attempt
// timestamp, if any.
func (p *AnyPointer) LastDownloadAttempt() *time.Time {
	if p.source == PointerSourceMedia {
		return p.attachment.media.LastDownloadAttempt
	}
	return p.attachment.transit.LastDownloadAttempt
}

// FullsizeUnencryptedByteCount returns the plaintext size of the fullsize
// content: the validated stream count when the stream exists, otherwise the
// sender-advertised count, otherwise nil.
func (p *AnyPointer) FullsizeUnencryptedByteCount() *uint32 {
	if p.attachment.stream != nil {
		count := p.attachment.stream.UnencryptedByteCount
		return &count
	}
	return p.attachment.UnencryptedByteCount
}
