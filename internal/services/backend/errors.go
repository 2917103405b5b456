package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized indicates the backend rejected the bearer token (401)
	ErrUnauthorized = errors.New("authentication required")

	// ErrNotFound indicates the requested resource does not exist (404)
	ErrNotFound = errors.New("resource not found")

	// ErrConflict indicates a uniqueness conflict, e.g. duplicate subscription (409)
	ErrConflict = errors.New("resource already exists")

	// ErrRateLimited indicates the backend rate limit was exceeded (429)
	ErrRateLimited = errors.New("backend rate limit exceeded")
)

// APIError carries the backend's error detail for non-2xx responses that
// have a structured body.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend error (status %d)", e.StatusCode)
}

// Unwrap maps well-known status codes onto sentinel errors so callers can
// use errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case 401:
		return ErrUnauthorized
	case 404:
		return ErrNotFound
	case 409:
		return ErrConflict
	case 429:
		return ErrRateLimited
	}
	return nil
}

// isTemporaryError checks if an error is temporary and should be retried
func isTemporaryError(err error) bool {
	if netErr, ok := err.(interface{ Temporary() bool }); ok && netErr.Temporary() {
		return true
	}
	if netErr, ok := err.(interface{ Timeout() bool }); ok && netErr.Timeout() {
		return true
	}
	return false
}
