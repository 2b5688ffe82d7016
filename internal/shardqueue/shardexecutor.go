// Package shardqueue provides a small sharded work queue that keeps FIFO
// order per key while running different keys in parallel.
//
// Callers must not invoke Submit concurrently for the same key. FIFO
// ordering relies on that external serialisation.
package shardqueue

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/d-velop/dvelop-sdk-go/internal/errors"
)

// Job is a unit of work executed by a ShardExecutor.
type Job interface {
	Run(ctx context.Context) error
}

// JobFunc adapts a function to a Job.
type JobFunc func(ctx context.Context) error

func (f JobFunc) Run(ctx context.Context) error { return f(ctx) }

type queuedJob struct {
	ctx context.Context
	job Job
}

// ShardExecutor runs Jobs on worker goroutines partitioned by a stable hash
// of the key (e.g. a log source).
type ShardExecutor struct {
	cfg    Config
	queues []chan queuedJob // len == cfg.Shards
	logger zerolog.Logger

	done   chan struct{} // closed in Stop()
	closed uint32        // 0 running, 1 closed

	wg sync.WaitGroup
}

// NewShardExecutor constructs the executor and starts its shard workers.
func NewShardExecutor(cfg Config) *ShardExecutor {
	cfg = cfg.withDefaults()

	p := &ShardExecutor{
		cfg:    cfg,
		queues: make([]chan queuedJob, cfg.Shards),
		logger: cfg.Logger.With().Str("component", "shardqueue").Logger(),
		done:   make(chan struct{}),
	}
	for i := 0; i < cfg.Shards; i++ {
		ch := make(chan queuedJob, cfg.QueueSize)
		p.queues[i] = ch
		p.wg.Add(1)
		go p.runWorker(i, ch)
	}
	return p
}

// Submit enqueues job for the shard derived from key.
//
//   - Returns nil on success.
//   - Returns ErrExecutorClosed if the executor is stopped.
//   - Returns ErrQueueFull (wrapped in *QueueFullError) if the shard is full
//     after EnqueueTimeout elapses.
//   - Returns ctx.Err() if the caller's context is cancelled first.
func (p *ShardExecutor) Submit(ctx context.Context, key string, job Job) error {
	if atomic.LoadUint32(&p.closed) == 1 {
		return ErrExecutorClosed
	}
	select {
	case <-p.done:
		return ErrExecutorClosed
	default:
	}

	qj := queuedJob{ctx: ctx, job: job}
	shard := p.shardFor(key)
	ch := p.queues[shard]

	timer := time.NewTimer(p.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case ch <- qj:
		submissionsTotal.WithLabelValues(labelFor(shard)).Inc()
		return nil

	case <-p.done:
		return ErrExecutorClosed

	case <-ctx.Done():
		return ctx.Err()

	case <-timer.C:
		queueFullTotal.WithLabelValues(labelFor(shard)).Inc()
		return &QueueFullError{
			Shard:    shard,
			Length:   len(ch),
			Capacity: cap(ch),
		}
	}
}

// Barrier enqueues a no-op job on the shard for key and waits until it runs,
// so every job submitted earlier for that key has completed.
func (p *ShardExecutor) Barrier(ctx context.Context, key string) error {
	done := make(chan struct{})
	j := JobFunc(func(context.Context) error {
		close(done)
		return nil
	})
	if err := p.Submit(ctx, key, j); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Stop lets every worker drain its queue, waits for them and returns. It is
// idempotent and safe for concurrent use.
func (p *ShardExecutor) Stop() {
	if !atomic.CompareAndSwapUint32(&p.closed, 0, 1) {
		return
	}

	p.logger.Debug().Int("shards", p.cfg.Shards).Msg("stopping executor")
	close(p.done)
	p.wg.Wait()
	p.logger.Debug().Msg("executor stopped, all queues drained")
}

// Close lets ShardExecutor satisfy io.Closer.
func (p *ShardExecutor) Close() error {
	p.Stop()
	return nil
}

// ------------------------- internals -------------------------

func (p *ShardExecutor) runWorker(idx int, ch <-chan queuedJob) {
	defer p.wg.Done()

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Int("worker", idx).Interface("panic", r).Msg("worker panic")
		}
	}()

	label := labelFor(idx)

	for {
		select {
		case qj := <-ch:
			if qj.job == nil {
				continue
			}

			// A cancelled job must not stall the shard.
			select {
			case <-qj.ctx.Done():
				p.safeHandleError(qj.ctx.Err())
			default:
				if stopped := p.runWithRetry(qj, label); stopped {
					return
				}
			}

			queueDepth.WithLabelValues(label).Set(float64(len(ch)))

		case <-p.done:
			p.drain(idx, ch, label)
			return
		}
	}
}

// runWithRetry runs qj until it succeeds, fails irrecoverably or runs out of
// attempts. It reports true when the executor stopped mid-backoff.
func (p *ShardExecutor) runWithRetry(qj queuedJob, label string) bool {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.cfg.BaseBackoff
	exp.Multiplier = 2
	exp.MaxInterval = p.cfg.MaxInterval
	exp.Reset()

	for attempts := 0; ; attempts++ {
		start := time.Now()
		err := qj.job.Run(qj.ctx)
		runDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

		switch {
		case err == nil:
			return false
		case errors.IsIrrecoverable(err):
			p.safeHandleError(err)
			return false
		case attempts >= p.cfg.MaxAttempts-1:
			p.safeHandleError(err)
			return false
		}

		retriesTotal.WithLabelValues(label).Inc()
		wait := exp.NextBackOff()
		if ra := errors.RetryAfter(err); ra > wait {
			wait = min(ra, p.cfg.MaxInterval)
		}
		select {
		case <-time.After(wait):
		case <-p.done:
			return true
		case <-qj.ctx.Done():
			p.safeHandleError(qj.ctx.Err())
			return false
		}
	}
}

// drain runs whatever is still queued, in order, without retries.
func (p *ShardExecutor) drain(idx int, ch <-chan queuedJob, label string) {
	if n := len(ch); n > 0 {
		p.logger.Debug().Int("worker", idx).Int("remaining", n).Msg("draining shard")
	}
	for {
		select {
		case qj := <-ch:
			if qj.job != nil {
				p.safeHandleError(qj.job.Run(qj.ctx))
			}
		default:
			queueDepth.WithLabelValues(label).Set(0)
			return
		}
	}
}

func (p *ShardExecutor) safeHandleError(err error) {
	if err == nil || p.cfg.ErrorHandler == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Interface("panic", r).Msg("error handler panic")
		}
	}()
	p.cfg.ErrorHandler(err)
}

func (p *ShardExecutor) shardFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(p.cfg.Shards))
}
