package domain

import (
	"fmt"
	"net/http"
)

// CopyErrorCode classifies copy-to-media-tier failures. The set is closed:
// the service contract defines exactly these outcomes, and the caller is
// expected to switch on them rather than retry blindly.
type CopyErrorCode string

const (
	CopyErrorBadArgument          CopyErrorCode = "bad_argument"
	CopyErrorInvalidAuth          CopyErrorCode = "invalid_auth"
	CopyErrorForbidden            CopyErrorCode = "forbidden"
	CopyErrorSourceObjectNotFound CopyErrorCode = "source_object_not_found"
	CopyErrorOutOfCapacity        CopyErrorCode = "out_of_capacity"
	CopyErrorRateLimited          CopyErrorCode = "rate_limited"
)

// CopyToMediaTierError is the typed failure for the copy-to-media-tier
// operation, carrying both the classification and the raw status code.
type CopyToMediaTierError struct {
	Code       CopyErrorCode
	StatusCode int
}

// Error implements the error interface.
func (e *CopyToMediaTierError) Error() string {
	return fmt.Sprintf("copy to media tier failed: %s (status %d)", e.Code, e.StatusCode)
}

// MapCopyStatus maps an HTTP status code from the copy endpoint to a
// CopyToMediaTierError, or nil for 2xx responses. Unclassified codes map to
// a StatusError.
func MapCopyStatus(statusCode int) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	var code CopyErrorCode
	switch statusCode {
	case http.StatusBadRequest:
		code = CopyErrorBadArgument
	case http.StatusUnauthorized:
		code = CopyErrorInvalidAuth
	case http.StatusForbidden:
		code = CopyErrorForbidden
	case http.StatusGone:
		code = CopyErrorSourceObjectNotFound
	case http.StatusRequestEntityTooLarge:
		code = CopyErrorOutOfCapacity
	case http.StatusTooManyRequests:
		code = CopyErrorRateLimited
	default:
		return &StatusError{StatusCode: statusCode}
	}

	return &CopyToMediaTierError{Code: code, StatusCode: statusCode}
}
