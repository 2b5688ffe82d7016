package api

import (
	"net/http"
	"net/url"

	"github.com/d-velop/dvelop-sdk-go/internal/transport"
	"github.com/d-velop/dvelop-sdk-go/internal/types"
)

// ImpersonationParams identifies the app session to impersonate with.
type ImpersonationParams struct {
	AppSessionToken string
	RequestID       string
}

// GetAuthSession exchanges an API key for an auth session.
var GetAuthSession = Endpoint[string, *types.AuthSession]{
	Build: func(apiKey string) (transport.Request, error) {
		if err := types.ValidateIDPresent(apiKey, "apiKey"); err != nil {
			return transport.Request{}, err
		}
		return transport.Request{
			URL:    "/identityprovider/login",
			Header: bearer(apiKey),
		}, nil
	},
	Transform: DecodeJSON[types.AuthSession],
}

// ValidateAuthSession resolves an auth session ID to its user. An empty ID
// validates the client's own session.
var ValidateAuthSession = Endpoint[string, *types.User]{
	Build: func(authSessionID string) (transport.Request, error) {
		req := transport.Request{URL: "/identityprovider/validate"}
		if authSessionID != "" {
			req.Header = bearer(authSessionID)
		}
		return req, nil
	},
	Transform: DecodeJSON[types.User],
}

// GetImpersonatedAuthSession trades an app session token for a user session.
var GetImpersonatedAuthSession = Endpoint[ImpersonationParams, string]{
	Build: func(p ImpersonationParams) (transport.Request, error) {
		if err := types.ValidateIDPresent(p.AppSessionToken, "appSessionToken"); err != nil {
			return transport.Request{}, err
		}
		h := bearer(p.AppSessionToken)
		if p.RequestID != "" {
			h.Set("X-Request-Id", p.RequestID)
		}
		return transport.Request{URL: "/identityprovider/impersonate/session", Header: h}, nil
	},
	Transform: func(resp *transport.Response) (string, error) {
		s, err := DecodeJSON[types.ImpersonatedSession](resp)
		if err != nil {
			return "", err
		}
		return s.AuthSessionID, nil
	},
}

// LoginRedirectionURI returns the login page URI that sends the user back
// to redirect afterwards.
func LoginRedirectionURI(redirect string) string {
	return "/identityprovider/login?redirect=" + url.QueryEscape(redirect)
}

func bearer(token string) http.Header {
	h := make(http.Header)
	h.Set("Authorization", "Bearer "+token)
	return h
}
