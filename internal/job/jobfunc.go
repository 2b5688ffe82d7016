// Package job builds the units of work the client hands to its executor.
package job

import (
	"context"
	"errors"
	"fmt"
)

// ErrNilJobFunc is returned when a nil closure is run.
var ErrNilJobFunc = errors.New("nil job func")

type jobFunc func(context.Context) error

func (f jobFunc) Run(ctx context.Context) error {
	if f == nil {
		return fmt.Errorf("job: %w", ErrNilJobFunc)
	}
	return f(ctx)
}

// New wraps fn as a shardqueue.Job.
func New(fn func(context.Context) error) jobFunc {
	return jobFunc(fn)
}

// Barrier returns a no-op job and a channel closed once the job has run.
// Submitted behind other jobs of the same key, it marks the point where all
// of them are done.
func Barrier() (jobFunc, <-chan struct{}) {
	done := make(chan struct{})
	return func(context.Context) error {
		close(done)
		return nil
	}, done
}
