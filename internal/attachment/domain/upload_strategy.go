package domain

// UploadStrategy is the closed set of outcomes for a transit tier upload
// decision. Callers switch on the concrete type.
type UploadStrategy interface {
	isUploadStrategy()
}

// CannotUpload means no local stream exists; there is nothing to upload.
type CannotUpload struct{}

// ReuseExistingUpload means an unexpired transit tier copy exists; the caller
// should point at it instead of uploading again.
type ReuseExistingUpload struct {
	Transit TransitTierInfo
}

// ReuseStreamEncryption means the attachment has never been uploaded to any
// tier, so the local stream's encryption key, digest and lengths can be used
// as-is without a second encryption pass.
type ReuseStreamEncryption struct {
	Stream StreamInfo
}

// FreshUpload means the caller must re-encrypt with a new key before
// uploading: a prior upload exists somewhere, so the local encryption
// metadata must not be reused.
type FreshUpload struct {
	Stream StreamInfo
}

func (CannotUpload) isUploadStrategy()          {}
func (ReuseExistingUpload) isUploadStrategy()   {}
func (ReuseStreamEncryption) isUploadStrategy() {}
func (FreshUpload) isUploadStrategy()           {}
