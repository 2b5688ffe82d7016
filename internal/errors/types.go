// Package errors classifies platform failures for the SDK: the retry
// category a failure belongs to, and the sentinel it matches for callers
// using errors.Is.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCategory determines how the async executor treats a failed job.
type ErrorCategory int

const (
	// Recoverable errors are retried with exponential backoff.
	// Examples: 500 Internal Server Error, network timeouts, connection failures.
	Recoverable ErrorCategory = iota

	// Irrecoverable errors fail immediately without retry.
	// Examples: 401 Unauthorized, 403 Forbidden, 400 Bad Request.
	Irrecoverable
)

// String returns a human-readable representation of the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// Sentinels matched by ClassifiedError.Is according to the HTTP status.
var (
	ErrBadInput     = stderrors.New("bad input")
	ErrUnauthorized = stderrors.New("unauthorized")
	ErrForbidden    = stderrors.New("forbidden")
	ErrNotFound     = stderrors.New("not found")
)

// ClassifiedError wraps an error with categorization metadata.
type ClassifiedError struct {
	Category   ErrorCategory
	StatusCode int    // HTTP status code (0 for non-HTTP errors)
	Body       string // Response body for debugging
	Operation  string
	// RetryAfter is the server's requested delay before a retry, from the
	// Retry-After header. Zero when absent.
	RetryAfter time.Duration
	Underlying error
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] HTTP %d: %v", e.Category, e.StatusCode, e.Underlying)
	}
	return fmt.Sprintf("[%s] %v", e.Category, e.Underlying)
}

// Unwrap returns the underlying error for error chain compatibility.
func (e *ClassifiedError) Unwrap() error {
	return e.Underlying
}

// Is maps the status code onto the package sentinels.
func (e *ClassifiedError) Is(target error) bool {
	switch target {
	case ErrBadInput:
		return e.StatusCode == 400
	case ErrUnauthorized:
		return e.StatusCode == 401
	case ErrForbidden:
		return e.StatusCode == 403
	case ErrNotFound:
		return e.StatusCode == 404
	}
	return false
}

// IsIrrecoverable returns true if the error should not be retried.
func IsIrrecoverable(err error) bool {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified.Category == Irrecoverable
	}
	return false
}

// RetryAfter returns the delay a classified error asks for, or zero.
func RetryAfter(err error) time.Duration {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified.RetryAfter
	}
	return 0
}
