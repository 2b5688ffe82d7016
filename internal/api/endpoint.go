// Package api defines every platform operation as an Endpoint: a request
// builder paired with a response transform. The public client only supplies
// the Doer that sends the request.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/d-velop/dvelop-sdk-go/internal/hal"
	"github.com/d-velop/dvelop-sdk-go/internal/transport"
)

// ErrNoLocation is returned by create operations whose response lacks a
// Location header.
var ErrNoLocation = errors.New("response has no Location header")

// Doer sends a request through the interceptor pipeline. Transport.Do
// satisfies it.
type Doer func(ctx context.Context, req transport.Request) (*transport.Response, error)

// Builder turns operation parameters into a request descriptor.
type Builder[P any] func(params P) (transport.Request, error)

// Transform turns a response into the operation result.
type Transform[T any] func(resp *transport.Response) (T, error)

// Endpoint is one operation.
type Endpoint[P, T any] struct {
	Build     Builder[P]
	Transform Transform[T]
}

// WithTransform returns a copy of e using t.
func (e Endpoint[P, T]) WithTransform(t Transform[T]) Endpoint[P, T] {
	e.Transform = t
	return e
}

// Call builds the request for params, sends it with do and transforms the
// response.
func (e Endpoint[P, T]) Call(ctx context.Context, do Doer, params P) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	req, err := e.Build(params)
	if err != nil {
		return zero, err
	}
	resp, err := do(ctx, req)
	if err != nil {
		return zero, err
	}
	return e.Transform(resp)
}

// ---------------------------------------------------------------------------
// Transforms
// ---------------------------------------------------------------------------

// DecodeJSON decodes the body into a new T.
func DecodeJSON[T any](resp *transport.Response) (*T, error) {
	var out T
	if err := resp.JSON(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Location returns the Location header of a create response.
func Location(resp *transport.Response) (string, error) {
	if loc := resp.Location(); loc != "" {
		return loc, nil
	}
	return "", ErrNoLocation
}

// Discard ignores the body.
func Discard(*transport.Response) (struct{}, error) { return struct{}{}, nil }

// ---------------------------------------------------------------------------
// Pagination
// ---------------------------------------------------------------------------

// Page is one page of a list result. Next is nil on the last page.
type Page[T any] struct {
	Items []T
	Next  func(ctx context.Context) (*Page[T], error)
}

// CallPaged runs e like Call and wraps the decoded body in a Page. items
// extracts the entries and links of one body. When the links carry a "next"
// relation, Page.Next re-runs e's transform against that href.
func CallPaged[P, B, T any](ctx context.Context, do Doer, e Endpoint[P, *B], params P, items func(*B) ([]T, hal.Links)) (*Page[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req, err := e.Build(params)
	if err != nil {
		return nil, err
	}
	return fetchPage(ctx, do, req, e.Transform, items)
}

func fetchPage[B, T any](ctx context.Context, do Doer, req transport.Request, transform Transform[*B], items func(*B) ([]T, hal.Links)) (*Page[T], error) {
	resp, err := do(ctx, req)
	if err != nil {
		return nil, err
	}
	body, err := transform(resp)
	if err != nil {
		return nil, err
	}
	list, links := items(body)
	page := &Page[T]{Items: list}

	if href, err := links.Href("next"); err == nil {
		next := transport.Request{
			Method:       http.MethodGet,
			URL:          href,
			Header:       req.Header.Clone(),
			ResponseType: req.ResponseType,
		}
		page.Next = func(ctx context.Context) (*Page[T], error) {
			return fetchPage(ctx, do, next, transform, items)
		}
	}
	return page, nil
}
