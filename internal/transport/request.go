// Package transport carries SDK requests from endpoint builders to the wire.
//
// A Request is a plain value describing one logical API call. Transport.Do
// passes it through the registered interceptors (link following, template
// resolution, ...) and then sends the finished request with a Doer.
package transport

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/d-velop/dvelop-sdk-go/internal/uritemplate"
)

// ResponseType tells the transport how to treat the response body.
type ResponseType int

const (
	// ResponseJSON requires a JSON body (or none).
	ResponseJSON ResponseType = iota
	// ResponseText accepts any body.
	ResponseText
	// ResponseBytes accepts any body and sends Accept: */*.
	ResponseBytes
)

func (t ResponseType) accept() string {
	switch t {
	case ResponseText:
		return "text/plain, */*"
	case ResponseBytes:
		return "*/*"
	default:
		return "application/json"
	}
}

// Request describes one outbound API call.
type Request struct {
	Method string
	// URL is absolute or relative to the transport's base URI and may hold
	// URI template tokens until interception is done.
	URL    string
	Header http.Header
	// Params are sent as the query string.
	Params map[string]string
	// Body is JSON-encoded unless it is a []byte or an io.Reader.
	Body         any
	ResponseType ResponseType

	// Follows lists HAL relations to traverse before the request is sent.
	Follows []string
	// Templates supplies URI template variables for every resolution step.
	Templates uritemplate.Values
}

// Clone returns a copy of r that shares no mutable state with it. Body is
// copied by reference.
func (r Request) Clone() Request {
	out := r
	if r.Header != nil {
		out.Header = r.Header.Clone()
	}
	if r.Params != nil {
		out.Params = make(map[string]string, len(r.Params))
		for k, v := range r.Params {
			out.Params[k] = v
		}
	}
	if r.Follows != nil {
		out.Follows = append([]string(nil), r.Follows...)
	}
	out.Templates = r.Templates.Clone()
	return out
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Data       []byte
	// URL is the final request URL after interception.
	URL string
}

// JSON decodes the response body into target.
func (r *Response) JSON(target any) error {
	if target == nil {
		return fmt.Errorf("decode target must be non-nil")
	}
	if len(r.Data) == 0 {
		return fmt.Errorf("decode response: empty body")
	}
	if err := json.Unmarshal(r.Data, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Location returns the Location header, used by create operations.
func (r *Response) Location() string {
	if r == nil || r.Header == nil {
		return ""
	}
	return r.Header.Get("Location")
}
