package apiclient

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when an authenticated call gets HTTP 401.
// The session token has already been cleared when it is returned.
var ErrUnauthorized = errors.New("unauthorized")

// AuthError is returned when the login endpoint rejects the credentials,
// or when they are missing (StatusCode 0, nothing was sent).
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return "login failed: " + e.Message
	}
	return fmt.Sprintf("login failed (status %d)", e.StatusCode)
}

// RequestFailedError is returned for any other non-2xx answer, or when the
// request never reached the server (StatusCode 0). The server body is not parsed.
type RequestFailedError struct {
	// Op is the failed operation, e.g. "delete site".
	Op         string
	StatusCode int
	Err        error
}

func (e *RequestFailedError) Error() string {
	if e.StatusCode == 0 && e.Err != nil {
		return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("failed to %s (status %d)", e.Op, e.StatusCode)
}

func (e *RequestFailedError) Unwrap() error {
	return e.Err
}

// IsConnectionError reports whether err is a transport failure.
func IsConnectionError(err error) bool {
	var reqErr *RequestFailedError
	return errors.As(err, &reqErr) && reqErr.StatusCode == 0
}

// IsNotFound reports whether err is a 404 answer.
func IsNotFound(err error) bool {
	var reqErr *RequestFailedError
	return errors.As(err, &reqErr) && reqErr.StatusCode == 404
}
