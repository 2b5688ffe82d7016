// Package follow resolves HAL relation chains into a final request URL.
//
// A request names the relations to traverse in Request.Follows. The
// interceptor starts at Request.URL, fetches each resource in turn, reads the
// next href from its _links and expands it with Request.Templates. The
// request it returns targets the last href and carries no follows.
package follow

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/d-velop/dvelop-sdk-go/internal/hal"
	"github.com/d-velop/dvelop-sdk-go/internal/transport"
	"github.com/d-velop/dvelop-sdk-go/internal/uritemplate"
)

// Sender performs a discovery request. Transport.Do satisfies it.
type Sender func(ctx context.Context, req transport.Request) (*transport.Response, error)

// Interceptor follows HAL links ahead of the real request.
type Interceptor struct {
	send   Sender
	logger zerolog.Logger
}

// Option configures an Interceptor.
type Option func(*Interceptor)

// WithLogger sets the logger used for per-hop debug events.
func WithLogger(l zerolog.Logger) Option {
	return func(i *Interceptor) { i.logger = l }
}

// New returns an Interceptor issuing discovery requests through send.
func New(send Sender, opts ...Option) *Interceptor {
	i := &Interceptor{send: send, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Intercept resolves req's URL templates and follows its relations. It has
// the transport.Interceptor signature.
func (i *Interceptor) Intercept(ctx context.Context, req transport.Request) (transport.Request, error) {
	if req.URL != "" {
		req = resolve(req, req.URL)
	}
	if len(req.Follows) == 0 {
		req.Follows = nil
		req.Templates = nil
		return req, nil
	}

	for n, rel := range req.Follows {
		next, err := i.hop(ctx, req, rel)
		if err != nil {
			return transport.Request{}, err
		}
		i.logger.Debug().
			Int("hop", n+1).
			Str("rel", rel).
			Str("from", req.URL).
			Str("url", next.URL).
			Msg("followed hal link")
		req = next
	}

	req.Follows = nil
	req.Templates = nil
	return req, nil
}

// hop discovers rel at req.URL and returns req retargeted at its href.
func (i *Interceptor) hop(ctx context.Context, req transport.Request, rel string) (transport.Request, error) {
	resp, err := i.send(ctx, discovery(req))
	if err != nil {
		followFailuresTotal.WithLabelValues("transport").Inc()
		return transport.Request{}, err
	}

	var doc hal.Document
	if len(resp.Data) > 0 {
		if err := resp.JSON(&doc); err != nil {
			followFailuresTotal.WithLabelValues("decode").Inc()
			return transport.Request{}, fmt.Errorf("follow %q: %w", rel, err)
		}
	}
	href, err := doc.Links.Href(rel)
	if err != nil {
		followFailuresTotal.WithLabelValues("missing_link").Inc()
		return transport.Request{}, err
	}

	followHopsTotal.WithLabelValues(rel).Inc()
	return resolve(req, href), nil
}

// discovery derives the GET issued against req.URL to read its links.
func discovery(req transport.Request) transport.Request {
	d := req.Clone()
	d.Method = http.MethodGet
	if d.Header == nil {
		d.Header = make(http.Header)
	}
	d.Header.Set("Accept", hal.MediaTypes)
	d.ResponseType = transport.ResponseJSON
	d.Follows = []string{}
	d.Body = nil
	return d
}

// resolve returns req targeting the expansion of rawURL.
func resolve(req transport.Request, rawURL string) transport.Request {
	res := uritemplate.Resolve(rawURL, req.Params, req.Templates)
	req.URL = res.URL
	req.Params = res.Params
	return req
}
