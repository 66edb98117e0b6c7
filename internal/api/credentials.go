package api

import (
	"context"
	"net/http"
)

type contextKey string

const (
	credentialsKey contextKey = "upstream_credentials"
	pendingKey     contextKey = "upstream_pending"
)

// WithCredentials attaches the admin's upstream session cookies to ctx. Calls
// made with such a context are authenticated and subject to the 401 hook.
func WithCredentials(ctx context.Context, cookies []*http.Cookie) context.Context {
	return context.WithValue(ctx, credentialsKey, cookies)
}

// WithPendingCookies forwards cookies of an unfinished sign-in flow, such as
// admin setup. The call stays unauthenticated, so a 401 never ends a session.
func WithPendingCookies(ctx context.Context, cookies []*http.Cookie) context.Context {
	return context.WithValue(ctx, pendingKey, cookies)
}

func credentialsFrom(ctx context.Context) ([]*http.Cookie, bool) {
	if cookies, ok := ctx.Value(credentialsKey).([]*http.Cookie); ok {
		return cookies, true
	}
	pending, _ := ctx.Value(pendingKey).([]*http.Cookie)
	return pending, false
}
