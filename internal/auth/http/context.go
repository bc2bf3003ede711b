// Package http provides the authorization gate and authentication handlers.
package http

import (
	"context"

	authDomain "github.com/kiwistore/kiwi/internal/auth/domain"
)

// authContextKey is a context key type for storing verified token claims.
type authContextKey struct{}

// WithAuthContext stores verified token claims in the context. The gate calls
// this after a successful bearer token verification.
func WithAuthContext(ctx context.Context, ac *authDomain.AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, ac)
}

// GetAuthContext retrieves verified token claims from the context.
// Returns (nil, false) when the request did not pass through the gate as a
// protected request.
func GetAuthContext(ctx context.Context) (*authDomain.AuthContext, bool) {
	ac, ok := ctx.Value(authContextKey{}).(*authDomain.AuthContext)
	return ac, ok
}
