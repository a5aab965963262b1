// Package errors defines the sentinel errors shared across the module and
// helpers to wrap and inspect them. Repositories translate driver failures
// into these sentinels (a duplicate media name becomes ErrConflict, a missing
// root key ErrNotFound) and the HTTP handlers map them onto status codes.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a missing record: an unknown attachment id, an
	// absent root key, or a cache entry that was never written.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness violation, such as two attachments
	// claiming the same media name or a root key created twice for a purpose.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates input that failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates missing or unusable credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates credentials that lack the required tier.
	ErrForbidden = errors.New("forbidden")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap adds context to an error while keeping the sentinel reachable
// through the chain. Returns nil for a nil error.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
