package dvelop

import (
	"errors"

	sdkerrors "github.com/d-velop/dvelop-sdk-go/internal/errors"
	"github.com/d-velop/dvelop-sdk-go/internal/hal"
	"github.com/d-velop/dvelop-sdk-go/internal/shardqueue"
	"github.com/d-velop/dvelop-sdk-go/internal/transport"
)

// ErrBackPressure is returned by Log when the executor queue for a source is
// full.
var ErrBackPressure = errors.New("back-pressure (queue full)")

// IsBackPressure reports whether err is a back-pressure error.
func IsBackPressure(err error) bool { return errors.Is(err, ErrBackPressure) }

// Re-exported so callers compare against a single package.
var (
	ErrBadInput          = sdkerrors.ErrBadInput
	ErrUnauthorized      = sdkerrors.ErrUnauthorized
	ErrForbidden         = sdkerrors.ErrForbidden
	ErrNotFound          = sdkerrors.ErrNotFound
	ErrExecutorClosed    = shardqueue.ErrExecutorClosed
	ErrUnresolvedFollows = transport.ErrUnresolvedFollows
)

type (
	// LinkNotFoundError reports a HAL relation missing from a resource.
	LinkNotFoundError = hal.LinkNotFoundError
	// APIError is a non-2xx platform response or a network failure.
	APIError = sdkerrors.ClassifiedError
)

// IsRetryable reports whether err is worth retrying.
func IsRetryable(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && !sdkerrors.IsIrrecoverable(err)
}
