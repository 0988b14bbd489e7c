package transport

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError represents a non-2xx response from the upload endpoint
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("upload endpoint returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// retryable reports whether an attempt failure is worth retrying.
// Network-level failures and server-side (5xx) statuses are; client
// errors (4xx) are deterministic and are not.
func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500
	}
	// Anything without a status is a network-level failure
	return true
}
