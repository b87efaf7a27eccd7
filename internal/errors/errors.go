package errors

import (
	"errors"
	"fmt"
)

// Common error types for the gateway
var (
	// Configuration errors
	ErrMissingConfig = errors.New("missing or invalid configuration")

	// Token errors
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExchange = errors.New("token exchange failed")
	ErrTokenRefresh  = errors.New("token refresh failed")

	// Backend errors
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrMalformedResponse  = errors.New("malformed backend response")
)

// BackendError is returned when the backend token API answers with a non-2xx status.
type BackendError struct {
	Op         string // delegateToken, validateToken or refreshToken
	StatusCode int
	Status     string
	Body       string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %s. Details: %s", e.Op, e.Status, e.Body)
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Class names the failure for logs: backend_rejected, backend_unavailable,
// malformed_response or unknown.
func Class(err error) string {
	var backendErr *BackendError
	switch {
	case err == nil:
		return ""
	case As(err, &backendErr):
		return "backend_rejected"
	case Is(err, ErrBackendUnavailable):
		return "backend_unavailable"
	case Is(err, ErrMalformedResponse):
		return "malformed_response"
	case Is(err, ErrInvalidToken):
		return "invalid_token"
	default:
		return "unknown"
	}
}
