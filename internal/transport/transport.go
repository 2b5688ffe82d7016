package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	sdkerrors "github.com/d-velop/dvelop-sdk-go/internal/errors"
)

// ErrUnresolvedFollows is returned by Send when a request still carries HAL
// relations, meaning no link-follow interceptor ran.
var ErrUnresolvedFollows = errors.New("request has unresolved follows")

// Doer is the subset of http.Client used by the transport.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Interceptor rewrites a request before it is sent. It returns the request
// to hand to the next interceptor.
type Interceptor func(ctx context.Context, req Request) (Request, error)

// Transport runs requests through its interceptors and sends them.
type Transport struct {
	base *url.URL
	doer Doer

	mu           sync.RWMutex
	interceptors []Interceptor
}

// New returns a Transport resolving relative URLs against baseURL. An empty
// baseURL is allowed when every request carries an absolute URL.
func New(baseURL string, doer Doer) (*Transport, error) {
	if doer == nil {
		return nil, errors.New("doer is required")
	}
	t := &Transport{doer: doer}
	if baseURL != "" {
		u, err := url.Parse(strings.TrimRight(baseURL, "/"))
		if err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}
		if !u.IsAbs() {
			return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
		}
		t.base = u
	}
	return t, nil
}

// Use appends interceptors. They run in registration order.
func (t *Transport) Use(interceptors ...Interceptor) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.interceptors = append(t.interceptors, interceptors...)
}

// Do runs req through every interceptor and sends the result.
func (t *Transport) Do(ctx context.Context, req Request) (*Response, error) {
	t.mu.RLock()
	chain := t.interceptors
	t.mu.RUnlock()

	var err error
	for _, intercept := range chain {
		if req, err = intercept(ctx, req); err != nil {
			return nil, err
		}
	}
	return t.Send(ctx, req)
}

// Send performs req without running interceptors.
func (t *Transport) Send(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.Follows) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnresolvedFollows, req.Follows)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	target, err := t.resolve(req.URL, req.Params)
	if err != nil {
		return nil, err
	}
	op := method + " " + target.Path

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", req.ResponseType.accept())
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	resp, err := t.doer.Do(httpReq)
	if err != nil {
		requestsTotal.WithLabelValues(method, "error").Inc()
		return nil, sdkerrors.NewNetworkError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()
	requestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, sdkerrors.NewHTTPError(resp.StatusCode, string(data), op).
			WithRetryAfter(resp.Header.Get("Retry-After"))
	}
	if req.ResponseType == ResponseJSON && len(bytes.TrimSpace(data)) > 0 && !json.Valid(data) {
		return nil, fmt.Errorf("%s: decode response: invalid JSON", op)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Data:       data,
		URL:        target.String(),
	}, nil
}

// resolve turns a possibly relative URL plus params into the final target.
func (t *Transport) resolve(raw string, params map[string]string) (*url.URL, error) {
	ref, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid request URL %q: %w", raw, err)
	}
	target := ref
	if !ref.IsAbs() {
		if t.base == nil {
			return nil, fmt.Errorf("relative request URL %q without base URL", raw)
		}
		target = t.base.ResolveReference(ref)
	}
	if len(params) > 0 {
		q := target.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		target.RawQuery = q.Encode()
	}
	return target, nil
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return bytes.NewReader(b), "", nil
	case io.Reader:
		return b, "", nil
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("marshal payload: %w", err)
		}
		return bytes.NewReader(raw), "application/json", nil
	}
}
