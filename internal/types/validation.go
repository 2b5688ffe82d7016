package types

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-multierror"

	"github.com/d-velop/dvelop-sdk-go/internal/shardqueue"
)

// ------------------------------
// Shared Interfaces
// ------------------------------

// Executor runs async jobs keyed for FIFO ordering.
type Executor interface {
	Submit(context.Context, string, shardqueue.Job) error
}

// ------------------------------
// Validation helpers
// ------------------------------

// ValidateIDPresent rejects empty identifiers.
func ValidateIDPresent(id, name string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s is required", name)
	}
	return nil
}

// Validate checks a single log event.
func (e LogEvent) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Body, validation.Required),
		validation.Field(&e.Time, validation.Required),
		validation.Field(&e.Severity, validation.Min(SeverityTrace), validation.Max(24)),
	)
}

// ValidateLogEvents validates a batch and reports every invalid event.
func ValidateLogEvents(events []LogEvent) error {
	if len(events) == 0 {
		return fmt.Errorf("at least one log event is required")
	}
	var result *multierror.Error
	for i, e := range events {
		if err := e.Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("event %d: %w", i, err))
		}
	}
	return result.ErrorOrNil()
}
