package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches any upstream 401 response.
	ErrUnauthorized = errors.New("upstream session expired or invalid")
	// ErrUnreachable wraps transport failures (DNS, refused, reset, cancelled).
	ErrUnreachable = errors.New("upstream unreachable")
)

// UnreachableMessage is shown when the upstream API could not be reached at all.
const UnreachableMessage = "Could not reach the server. Please try again."

// Error is a non-2xx upstream response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream responded %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("upstream responded %d", e.Status)
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// Message returns the text to show an admin for err: the server-provided
// message when there is one, a fixed text when the server was unreachable,
// otherwise fallback.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, ErrUnreachable) {
		return UnreachableMessage
	}
	return fallback
}

// StatusOf returns the upstream status code carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
