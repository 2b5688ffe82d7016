package dvelop

import (
	"context"

	"github.com/d-velop/dvelop-sdk-go/internal/shardqueue"
)

// Job is a unit of async work.
type Job = shardqueue.Job

// Executor runs async jobs, keeping FIFO order per key. The default is a
// sharded executor configured from SQ_* environment variables.
type Executor interface {
	Submit(ctx context.Context, key string, job Job) error
	Stop()
}

type executor = Executor
