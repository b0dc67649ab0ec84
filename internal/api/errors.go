package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized means the session token was missing, expired or rejected.
// The client clears the stored token when it sees this.
var ErrUnauthorized = errors.New("session expired, please log in again")

// APIError is a non-2xx response from the backend with its message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server error (%d)", e.Status)
}

// UserMessage formats any error from this package for inline display next to
// the control that triggered it. All action handlers surface errors through
// this one helper so the wording stays consistent.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrUnauthorized) {
		return ErrUnauthorized.Error()
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return "could not reach the server, try again"
}
