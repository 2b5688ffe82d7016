// Package dvelop is a client SDK for the d.velop cloud platform: identity
// provider, DMS, tasks, business objects and logging.
//
// Requests that name HAL relations are resolved link by link before they
// are sent. Callers only describe the entry point and the relation path.
package dvelop

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/d-velop/dvelop-sdk-go/internal/follow"
	"github.com/d-velop/dvelop-sdk-go/internal/job"
	"github.com/d-velop/dvelop-sdk-go/internal/shardqueue"
	"github.com/d-velop/dvelop-sdk-go/internal/transport"
)

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

type Client struct {
	baseURL       string
	authSessionID string
	http          *http.Client
	tr            *transport.Transport
	exec          executor
	logger        zerolog.Logger
	interceptors  []transport.Interceptor

	closedOnce uint32
}

// New constructs a Client for the tenant at systemBaseURI. authSessionID is
// sent as bearer token on every request that does not set its own
// Authorization header; it may be empty for calls that authenticate
// explicitly, such as GetAuthSession.
func New(systemBaseURI, authSessionID string, opts ...Option) (*Client, error) {
	if systemBaseURI == "" {
		return nil, errors.New("systemBaseURI cannot be empty")
	}

	c := &Client{
		baseURL:       systemBaseURI,
		authSessionID: authSessionID,
		http:          &http.Client{Timeout: 30 * time.Second},
		logger:        zerolog.Nop(),
	}

	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.exec == nil {
		c.exec = newDefaultExecutor(c.logger)
	}

	c.wrapTransportWithAuth()

	tr, err := transport.New(systemBaseURI, c.http)
	if err != nil {
		return nil, err
	}
	tr.Use(follow.New(tr.Do, follow.WithLogger(c.logger)).Intercept)
	tr.Use(c.interceptors...)
	c.tr = tr

	return c, nil
}

// BaseURL returns the system base URI the client was built for.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) wrapTransportWithAuth() {
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.http.Transport = &authTransport{base: base, authSessionID: c.authSessionID}
}

// authTransport adds the bearer token and a request ID unless the request
// already carries them.
type authTransport struct {
	base          http.RoundTripper
	authSessionID string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())
	if t.authSessionID != "" && cloned.Header.Get("Authorization") == "" {
		cloned.Header.Set("Authorization", "Bearer "+t.authSessionID)
	}
	if cloned.Header.Get("X-Request-Id") == "" {
		cloned.Header.Set("X-Request-Id", uuid.NewString())
	}
	return t.base.RoundTrip(cloned)
}

// do is the api.Doer handed to every endpoint.
func (c *Client) do(ctx context.Context, req transport.Request) (*transport.Response, error) {
	return c.tr.Do(ctx, req)
}

// Close stops the background executor, flushing queued log events. Safe to
// call multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	if c.exec != nil {
		c.exec.Stop()
	}
	return nil
}

// AwaitConsistency blocks until every log event submitted earlier for source
// has been shipped (or given up on).
func (c *Client) AwaitConsistency(ctx context.Context, source string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	barrier, done := job.Barrier()
	if err := c.exec.Submit(ctx, source, barrier); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func newDefaultExecutor(logger zerolog.Logger) *shardqueue.ShardExecutor {
	cfg, err := shardqueue.LoadConfig()
	if err != nil {
		logger.Warn().Err(err).Msg("invalid SQ_* settings, using defaults")
		cfg = shardqueue.Config{}
	}
	cfg.Logger = logger
	cfg.ErrorHandler = func(err error) {
		logEventsFailedTotal.Inc()
		logger.Error().Err(err).Msg("log event delivery failed")
	}
	return shardqueue.NewShardExecutor(cfg)
}

// --------------------------------------------------------------------
// Navigation
// --------------------------------------------------------------------

// Resolve walks nav's relations and expands its templates without sending
// the final request.
func (c *Client) Resolve(ctx context.Context, nav Navigation) (*Resolved, error) {
	req, err := follow.New(c.tr.Do, follow.WithLogger(c.logger)).Intercept(ctx, nav.request())
	if err != nil {
		return nil, err
	}
	return &Resolved{URL: req.URL, Params: req.Params}, nil
}

// Fetch walks nav and returns the raw JSON body of the target resource.
func (c *Client) Fetch(ctx context.Context, nav Navigation) ([]byte, error) {
	resp, err := c.do(ctx, nav.request())
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func wrapSubmitErr(err error) error {
	if errors.Is(err, shardqueue.ErrQueueFull) {
		return fmt.Errorf("%w: %v", ErrBackPressure, err)
	}
	return err
}
