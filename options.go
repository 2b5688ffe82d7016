package dvelop

// Functional options that configure the Client during construction.

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/d-velop/dvelop-sdk-go/internal/transport"
)

// Option configures a Client during construction in New.
//
// Options run in order before the auth wrapper is installed, so transport
// options stack beneath it. Pass WithHTTPClient first when combining it with
// other transport options.
type Option func(*Client) error

// Interceptor rewrites a request after link following and before it is
// sent.
type Interceptor = transport.Interceptor

// WithHTTPClient replaces the underlying http.Client. The client's Transport
// is wrapped, not mutated.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client must not be nil")
		}
		cp := *hc
		c.http = &cp
		return nil
	}
}

// WithHTTPTimeout sets the http.Client Timeout. Prefer context deadlines per
// call; this bounds a single HTTP exchange including discovery hops.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithDebugLogging dumps every request and response at debug level when
// enabled. Dumps include bodies and headers; do not enable in production.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			c.http.Transport = &debugTransport{base: c.http.Transport}
		}
		return nil
	}
}

// WithRateLimit caps outgoing requests, discovery hops included, at rps with
// the given burst. Requests wait for a token.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) error {
		if rps <= 0 {
			return fmt.Errorf("rate limit must be > 0")
		}
		if burst <= 0 {
			burst = max(int(rps), 1)
		}
		c.http.Transport = &rateLimitTransport{
			base:    c.http.Transport,
			limiter: rate.NewLimiter(rate.Limit(rps), burst),
		}
		return nil
	}
}

// WithTracing wraps the transport with OpenTelemetry HTTP instrumentation
// using the global tracer provider.
func WithTracing() Option {
	return func(c *Client) error {
		base := c.http.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		c.http.Transport = otelhttp.NewTransport(base,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return "dvelop " + r.Method + " " + r.URL.Path
			}),
		)
		return nil
	}
}

// WithLogger sets the logger for link-follow hops and async delivery
// failures. The default discards.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) error {
		c.logger = l
		return nil
	}
}

// WithInterceptor appends request interceptors.
func WithInterceptor(interceptors ...Interceptor) Option {
	return func(c *Client) error {
		for _, i := range interceptors {
			if i == nil {
				return fmt.Errorf("interceptor must not be nil")
			}
		}
		c.interceptors = append(c.interceptors, interceptors...)
		return nil
	}
}

// WithExecutor replaces the async executor used by Log.
func WithExecutor(exec Executor) Option {
	return func(c *Client) error {
		if exec == nil {
			return fmt.Errorf("executor must not be nil")
		}
		c.exec = exec
		return nil
	}
}
