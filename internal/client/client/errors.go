package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable        = errors.New("server unavailable")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrSessionExpired     = fmt.Errorf("session expired: %w", ErrUnauthorized)
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string

	kind error
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap exposes the sentinel matching the status (ErrSessionExpired for a
// 401 on an authenticated call, ErrNotFound for 404), if any.
func (e *APIError) Unwrap() error {
	return e.kind
}

func newAPIError(status int, message string, kind error) *APIError {
	if message == "" {
		message = fmt.Sprintf("HTTP %d", status)
	}
	if kind == nil && status == http.StatusNotFound {
		kind = ErrNotFound
	}
	return &APIError{StatusCode: status, Message: message, kind: kind}
}
