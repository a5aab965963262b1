// Package validation provides custom validation rules for the application.
package validation

import (
	"encoding/base64"
	"encoding/hex"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/mediavault/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Hex validates that a string is valid hexadecimal-encoded data.
var Hex = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_hex_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if _, err := hex.DecodeString(s); err != nil {
		return validation.NewError("validation_hex", "must be valid hex-encoded data")
	}
	return nil
})

// Base64 validates that a string is valid standard base64, the encoding used
// for backup ids and credential presentations on the wire.
var Base64 = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_base64_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if _, err := base64.StdEncoding.DecodeString(s); err != nil {
		return validation.NewError("validation_base64", "must be valid base64-encoded data")
	}
	return nil
})

// KeyLength validates that a byte slice has the given exact length.
// Used for 32-byte root key material and derived key inputs.
func KeyLength(n int) validation.Rule {
	return validation.By(func(value interface{}) error {
		b, ok := value.([]byte)
		if !ok {
			return validation.NewError("validation_key_type", "must be a byte slice")
		}
		if len(b) == 0 {
			return nil // Let Required handle empty values
		}
		if len(b) != n {
			return validation.NewError("validation_key_length", "invalid key length")
		}
		return nil
	})
}
