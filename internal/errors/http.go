package errors

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ClassifyHTTPError determines whether an HTTP error should be retried.
// - 4xx client errors (except 408 and 429) are irrecoverable
// - 5xx server errors are recoverable
// - Network-level errors are recoverable
func ClassifyHTTPError(statusCode int, body string, underlyingErr error) *ClassifiedError {
	return &ClassifiedError{
		Category:   getHTTPErrorCategory(statusCode),
		StatusCode: statusCode,
		Body:       body,
		Underlying: underlyingErr,
	}
}

// getHTTPErrorCategory maps HTTP status codes to error categories.
func getHTTPErrorCategory(statusCode int) ErrorCategory {
	switch {
	case statusCode >= 400 && statusCode < 500:
		switch statusCode {
		case 408, 429:
			return Recoverable
		default:
			return Irrecoverable
		}
	case statusCode >= 500 && statusCode < 600:
		return Recoverable
	default:
		// Unexpected status codes - be conservative and retry
		return Recoverable
	}
}

// NewHTTPError creates a classified error for a non-2xx response to operation.
func NewHTTPError(statusCode int, body string, operation string) *ClassifiedError {
	underlyingErr := fmt.Errorf("%s failed: HTTP %d", operation, statusCode)
	e := ClassifyHTTPError(statusCode, body, underlyingErr)
	e.Operation = operation
	return e
}

// NewNetworkError creates a classified error for network-level failures.
// Network errors are always recoverable as they may be transient.
func NewNetworkError(operation string, err error) *ClassifiedError {
	return &ClassifiedError{
		Category:   Recoverable,
		Operation:  operation,
		Underlying: fmt.Errorf("%s network error: %w", operation, err),
	}
}

// WithRetryAfter sets RetryAfter from a Retry-After header value, given in
// seconds or as an HTTP date. Unparseable values are ignored.
func (e *ClassifiedError) WithRetryAfter(header string) *ClassifiedError {
	header = strings.TrimSpace(header)
	if header == "" {
		return e
	}
	if secs, err := strconv.Atoi(header); err == nil {
		if secs > 0 {
			e.RetryAfter = time.Duration(secs) * time.Second
		}
		return e
	}
	if at, err := http.ParseTime(header); err == nil {
		if d := time.Until(at); d > 0 {
			e.RetryAfter = d
		}
	}
	return e
}
