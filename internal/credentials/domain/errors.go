package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRootKey indicates credential derivation was requested while
	// backups are disabled (no root key exists for the purpose).
	ErrNoRootKey = errors.New("no root key for purpose")
)

// StatusError is the generic typed failure for unexpected non-2xx responses
// from the backup service. Retry policy belongs to the network layer, not here.
type StatusError struct {
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("backup service returned status %d", e.StatusCode)
}
