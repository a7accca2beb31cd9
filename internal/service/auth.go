// Package service orchestrates domain operations over the ports, keeping
// adapters and HTTP handlers free of business rules.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campushq/internhub/internal/data"
	domainauth "github.com/campushq/internhub/internal/domain/auth"
	apperrors "github.com/campushq/internhub/internal/errors"
	"github.com/campushq/internhub/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider  ports.AuthProvider
	Sessions  ports.SessionStore
	Events    ports.SessionEventBus
	Directory ports.UserDirectory
	// AllowedEmailDomains restricts sign-in to institutional accounts.
	// Empty means any domain.
	AllowedEmailDomains []string
	Logger              *slog.Logger
}

// AuthService orchestrates sign-in, session resolution, session-change
// notifications, and sign-out.
type AuthService struct {
	provider       ports.AuthProvider
	sessions       ports.SessionStore
	events         ports.SessionEventBus
	directory      ports.UserDirectory
	allowedDomains []string
	logger         *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		provider:       opts.Provider,
		sessions:       opts.Sessions,
		events:         opts.Events,
		directory:      opts.Directory,
		allowedDomains: normalizeDomains(opts.AllowedEmailDomains),
		logger:         logger,
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an authentication flow. When a single institutional
// domain is configured it is passed to the provider as an account hint.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, apperrors.Validation("redirect URL is required")
	}

	input := ports.BeginInput{RedirectURL: redirectURL}
	if len(s.allowedDomains) == 1 {
		input.DomainHint = s.allowedDomains[0]
	}
	authURL, state, nonce, err := s.provider.Begin(ctx, input)
	if err != nil {
		return nil, apperrors.Provider("begin auth flow", err)
	}

	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLoginResult contains the result of completing a login flow.
// User is nil when the identity authenticated but has no directory profile;
// the session still exists and resolution will report it as orphaned.
type CompleteLoginResult struct {
	Session domainauth.Session
	User    *domainauth.AppUser
}

// CompleteLogin exchanges the authorization code for an identity, enforces
// the institutional email allow-list, persists a session, and announces it.
// The code is single-use; retrying a consumed code fails at the provider.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	if input.Code == "" {
		return nil, apperrors.Validation("authorization code is required")
	}
	if input.State == "" {
		return nil, apperrors.Validation("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, apperrors.Validation("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return nil, apperrors.Provider("exchange authorization code", err)
	}

	if !s.emailDomainAllowed(identity.Email) {
		return nil, apperrors.Forbidden("email domain is not allowed to sign in")
	}

	profile, err := s.directory.FindByUserID(ctx, identity.UserID)
	if err != nil && !errors.Is(err, data.ErrProfileNotFound) {
		return nil, apperrors.Internal("look up directory profile", err)
	}

	session := domainauth.Session{
		ID:        uuid.NewString(),
		UserID:    identity.UserID,
		Name:      identity.Name,
		Email:     strings.ToLower(identity.Email),
		ExpiresAt: identity.ExpiresAt,
	}
	if profile != nil {
		session.Role = profile.Role
	}
	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, apperrors.Internal("save session", saveErr)
	}

	s.publish(ctx, session.ID, &session)

	result := &CompleteLoginResult{Session: session}
	if profile != nil {
		result.User = profile.AppUser()
	} else {
		s.logger.WarnContext(ctx, "signed in identity has no directory profile",
			"user_id", identity.UserID)
	}
	return result, nil
}

// ResolveCurrentUser returns the application user behind sessionID.
//
// A missing or expired session yields (nil, nil): definitively signed out. A
// live session without a directory profile yields an orphan-session error.
// Any other failure is transient; callers keep their last-known user.
func (s *AuthService) ResolveCurrentUser(ctx context.Context, sessionID string) (*domainauth.AppUser, error) {
	if sessionID == "" {
		return nil, nil
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, apperrors.Internal("get session", err)
	}
	if time.Now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			s.logger.WarnContext(ctx, "failed to delete expired session",
				"session_id", sessionID, "error", deleteErr)
		}
		return nil, nil
	}

	profile, err := s.directory.FindByUserID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, data.ErrProfileNotFound) {
			return nil, apperrors.OrphanSession("signed in but no user record exists; contact an administrator or sign out")
		}
		return nil, apperrors.Internal("look up directory profile", err)
	}
	return profile.AppUser(), nil
}

// SubscribeSessionChanges registers fn for replacement-user notifications on
// sessionID. Each event carries the complete new state; nil means signed out.
func (s *AuthService) SubscribeSessionChanges(ctx context.Context, sessionID string, fn func(*domainauth.AppUser)) (func(), error) {
	if sessionID == "" {
		return nil, apperrors.Validation("session ID is required")
	}
	if s.events == nil {
		return nil, apperrors.Internal("session event bus is not configured", nil)
	}

	return s.events.Subscribe(ctx, sessionID, func(sess *domainauth.Session) {
		if sess == nil {
			fn(nil)
			return
		}
		profile, err := s.directory.FindByUserID(ctx, sess.UserID)
		if err != nil {
			// Dropping the event is safer than delivering a guess; the next
			// resolve picks up the true state.
			s.logger.WarnContext(ctx, "failed to materialize session event",
				"session_id", sessionID, "error", err)
			return
		}
		fn(profile.AppUser())
	})
}

// Logout deletes the session and announces the sign-out.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return apperrors.Internal("delete session", err)
	}
	s.publish(ctx, sessionID, nil)
	return nil
}

func (s *AuthService) publish(ctx context.Context, sessionID string, sess *domainauth.Session) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, sessionID, sess); err != nil {
		// Event delivery is advisory; resolution remains the source of truth.
		s.logger.WarnContext(ctx, "failed to publish session event",
			"session_id", sessionID, "error", err)
	}
}

func (s *AuthService) emailDomainAllowed(email string) bool {
	if len(s.allowedDomains) == 0 {
		return true
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	for _, allowed := range s.allowedDomains {
		if domain == allowed {
			return true
		}
	}
	return false
}

func normalizeDomains(domains []string) []string {
	out := make([]string, 0, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}
