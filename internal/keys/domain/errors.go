package domain

import "errors"

var (
	// ErrInvalidKeyMaterial indicates root key bytes are malformed (wrong
	// length or wrong purpose for the requested derivation). Derivation
	// failures are fatal to the calling operation and never retried.
	ErrInvalidKeyMaterial = errors.New("invalid key material")
)
