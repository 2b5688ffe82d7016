package dvelop

import (
	"context"

	"github.com/d-velop/dvelop-sdk-go/internal/api"
)

// GetAuthSession exchanges an API key for an auth session.
func (c *Client) GetAuthSession(ctx context.Context, apiKey string) (*AuthSession, error) {
	return api.GetAuthSession.Call(ctx, c.do, apiKey)
}

// ValidateAuthSessionID checks the client's auth session and returns its
// user. An expired or unknown session fails with ErrUnauthorized.
func (c *Client) ValidateAuthSessionID(ctx context.Context) (*User, error) {
	return api.ValidateAuthSession.Call(ctx, c.do, "")
}

// ValidateAuthSessionIDFor checks another auth session, e.g. one presented
// by an incoming request.
func (c *Client) ValidateAuthSessionIDFor(ctx context.Context, authSessionID string) (*User, error) {
	return api.ValidateAuthSession.Call(ctx, c.do, authSessionID)
}

// GetImpersonatedAuthSessionID trades an app session token for an auth
// session acting as the app's user.
func (c *Client) GetImpersonatedAuthSessionID(ctx context.Context, appSessionToken, requestID string) (string, error) {
	return api.GetImpersonatedAuthSession.Call(ctx, c.do, api.ImpersonationParams{
		AppSessionToken: appSessionToken,
		RequestID:       requestID,
	})
}

// GetLoginRedirectionURI returns the relative login URI that sends the user
// back to redirect.
func GetLoginRedirectionURI(redirect string) string {
	return api.LoginRedirectionURI(redirect)
}
