package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a backend-reported failure (HTTP status >= 400). Transport
// failures are not *Error; callers treat those as retryable network
// errors.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("friendsnap: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("friendsnap: %s (HTTP %d)", e.Detail, e.StatusCode)
}

// IsNotFound reports whether err is a backend 404, e.g. a conversation
// partner that no longer resolves after a block.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err means the session token is missing
// or expired.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsNetwork reports whether err is a transport-level failure rather than
// a backend verdict. Background polling swallows these; the next tick
// retries.
func IsNetwork(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *Error
	return !errors.As(err, &apiErr)
}
