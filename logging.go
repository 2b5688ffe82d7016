package dvelop

import (
	"context"

	"github.com/d-velop/dvelop-sdk-go/internal/api"
	"github.com/d-velop/dvelop-sdk-go/internal/job"
)

// IngestLogEvents ships events for source synchronously. Every invalid
// event is reported before anything is sent.
func (c *Client) IngestLogEvents(ctx context.Context, source string, events []LogEvent) error {
	_, err := api.IngestLogEvents.Call(ctx, c.do, api.LogBatch{Source: source, Events: events})
	return err
}

// Log queues ev for async delivery. Events of one source are shipped in
// submission order and retried on recoverable failures. Use
// AwaitConsistency to wait for delivery.
func (c *Client) Log(ctx context.Context, source string, ev LogEvent) (*EnqueueAck, error) {
	ack, err := api.EnqueueLogEvent(ctx, c.exec, c.do, source, ev)
	if err != nil {
		return nil, wrapSubmitErr(err)
	}
	logEventsEnqueuedTotal.WithLabelValues(job.ShardLabel(source)).Inc()
	return ack, nil
}
