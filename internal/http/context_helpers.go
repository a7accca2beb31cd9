package httpx

import (
	"context"

	domainauth "github.com/campushq/internhub/internal/domain/auth"
)

// userKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type userKey struct{}

// sessionIDKey carries the opaque session identifier for the request.
type sessionIDKey struct{}

// SetUserInContext returns a child context that carries the given user.
// If user is nil, the original ctx is returned unchanged.
func SetUserInContext(ctx context.Context, user *domainauth.AppUser) context.Context {
	if user == nil {
		return ctx
	}
	return context.WithValue(ctx, userKey{}, user)
}

// GetUserFromContext returns the current user from context and a boolean indicating presence.
func GetUserFromContext(ctx context.Context) (*domainauth.AppUser, bool) {
	if user, ok := ctx.Value(userKey{}).(*domainauth.AppUser); ok && user != nil {
		return user, true
	}
	return nil, false
}

// CurrentUser retrieves the user from the request context, or nil when absent.
func CurrentUser(ctx context.Context) *domainauth.AppUser {
	if u, ok := GetUserFromContext(ctx); ok {
		return u
	}
	return nil
}

// SetSessionIDInContext returns a child context carrying the session ID.
func SetSessionIDInContext(ctx context.Context, sessionID string) context.Context {
	if sessionID == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey{}, sessionID)
}

// GetSessionIDFromContext returns the session ID placed in the context by the
// access guard, or "" when the request carried no session.
func GetSessionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey{}).(string); ok {
		return id
	}
	return ""
}
