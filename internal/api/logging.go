package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/d-velop/dvelop-sdk-go/internal/job"
	"github.com/d-velop/dvelop-sdk-go/internal/transport"
	"github.com/d-velop/dvelop-sdk-go/internal/types"
)

const ingestPath = "/logging/ingest"

// LogBatch is a set of events from one source.
type LogBatch struct {
	Source string
	Events []types.LogEvent
}

// IngestLogEvents ships a batch synchronously.
var IngestLogEvents = Endpoint[LogBatch, struct{}]{
	Build: func(b LogBatch) (transport.Request, error) {
		if err := types.ValidateIDPresent(b.Source, "source"); err != nil {
			return transport.Request{}, err
		}
		if err := types.ValidateLogEvents(b.Events); err != nil {
			return transport.Request{}, err
		}
		return transport.Request{
			Method: http.MethodPost,
			URL:    ingestPath,
			Body: types.IngestRequest{
				Resource: types.IngestResource{SvcName: b.Source},
				Logs:     b.Events,
			},
		}, nil
	},
	Transform: Discard,
}

// EnqueueLogEvent submits ev to exec keyed by source, so events of one source
// reach the platform in order. Missing IDs and timestamps are filled in
// before validation.
func EnqueueLogEvent(ctx context.Context, exec types.Executor, do Doer, source string, ev types.LogEvent) (*types.EnqueueAck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(source, "source"); err != nil {
		return nil, err
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}

	batch := LogBatch{Source: source, Events: []types.LogEvent{ev}}
	ingest := job.New(func(jobCtx context.Context) error {
		_, err := IngestLogEvents.Call(jobCtx, do, batch)
		return err
	})
	if err := exec.Submit(ctx, source, ingest); err != nil {
		return nil, err
	}
	return &types.EnqueueAck{Source: source, EventID: ev.ID, Status: "enqueued"}, nil
}
