package dvelop

import (
	"net/http"

	"golang.org/x/time/rate"
)

// rateLimitTransport waits for a token before each request.
type rateLimitTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (rt *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := rt.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	base := rt.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}
