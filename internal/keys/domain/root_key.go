// Package domain defines the core models for the backup key hierarchy.
//
// One 32-byte root key per backup purpose is the trust anchor for everything
// else: the backup identifier, the transport signing key, and the per-media
// encryption material are all derived from it deterministically. Root keys are
// created when backups are enabled, destroyed when backups are disabled, and
// never leave the device.
package domain

import (
	"time"

	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/mediavault/internal/validation"
)

// RootKeySize is the required byte length of root key material.
const RootKeySize = 32

// Purpose identifies which backup a root key protects.
type Purpose string

const (
	// PurposeMessages protects the message history backup.
	PurposeMessages Purpose = "messages"
	// PurposeMedia protects durable media tier storage.
	PurposeMedia Purpose = "media"
)

// IsValid reports whether the purpose is a known value.
func (p Purpose) IsValid() bool {
	return p == PurposeMessages || p == PurposeMedia
}

// RootKey is an opaque fixed-length secret owned by the account.
// The Key field holds plaintext key material and must be zeroed
// with Zero when no longer needed.
type RootKey struct {
	Purpose   Purpose
	Key       []byte
	CreatedAt time.Time
}

// NewRootKey builds a RootKey after validating purpose and key length.
func NewRootKey(purpose Purpose, key []byte, createdAt time.Time) (*RootKey, error) {
	if !purpose.IsValid() {
		return nil, ErrInvalidKeyMaterial
	}
	if err := validation.Validate(key,
		validation.Required,
		customValidation.KeyLength(RootKeySize),
	); err != nil {
		return nil, ErrInvalidKeyMaterial
	}
	return &RootKey{
		Purpose:   purpose,
		Key:       key,
		CreatedAt: createdAt,
	}, nil
}
