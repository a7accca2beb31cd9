package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/campushq/internhub/internal/domain/auth"
	"github.com/campushq/internhub/internal/domain/model"
)

// ErrSessionNotFound is returned by SessionStore.Get when no live session
// exists for the given ID (missing or expired).
var ErrSessionNotFound = errors.New("session not found")

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	RedirectURL string
	// DomainHint, when set, is passed to the provider so the account chooser
	// preselects the institutional domain.
	DomainHint string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// AuthProvider initiates and completes an authentication flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns
	// the authenticated identity. The authorization code is single-use; a second
	// exchange of the same code fails.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// SessionEventBus distributes session-change notifications.
// Every published event carries the complete replacement session state
// (nil for sign-out), never a delta.
type SessionEventBus interface {
	// Publish announces that the given session ID changed. sess is nil when the
	// session was terminated.
	Publish(ctx context.Context, sessionID string, sess *domainauth.Session) error

	// Subscribe registers fn to be invoked once per published transition for
	// sessionID. It returns an unsubscribe function; after unsubscribing, fn is
	// never invoked again.
	Subscribe(ctx context.Context, sessionID string, fn func(*domainauth.Session)) (func(), error)
}

// UserDirectory resolves directory profiles for authenticated identities.
type UserDirectory interface {
	// FindByUserID returns the profile for the given identity, or
	// data.ErrProfileNotFound if no record exists (an orphan session when the
	// caller holds a live session for that identity).
	FindByUserID(ctx context.Context, userID string) (*model.UserProfile, error)
}
