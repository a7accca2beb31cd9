package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/campushq/internhub/internal/auth"
	domainauth "github.com/campushq/internhub/internal/domain/auth"
	apperrors "github.com/campushq/internhub/internal/errors"
	"github.com/campushq/internhub/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	ResolveCurrentUser(ctx context.Context, sessionID string) (*domainauth.AppUser, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	Registry     *auth.Registry
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login handles the login initiation endpoint.
// GET /auth/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	// Get the redirect URI from query params, default to root
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	// The provider needs the absolute callback URL the browser will return to.
	result, err := h.Svc.BeginLogin(r.Context(), callbackURL(r))
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_failed",
			Err:     err,
		})
		return
	}

	// Store state, nonce, and the original redirect URI in secure cookies
	h.setOAuthCookies(w, r, oauthCookieParams{State: result.State, Nonce: result.Nonce, RedirectURI: redirectURI})

	// Redirect to the identity provider
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback handles the OAuth callback endpoint.
// GET /auth/callback?code=<code>&state=<state>.
//
// The flow is a small state machine. A provider-reported error short-circuits
// before any code exchange. An exchange failure is not immediately fatal: the
// callback may be a replay (browser refresh, double navigation) whose first
// pass already established a session, so we fall back to resolving the
// session cookie before reporting failure.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// Provider denied or failed the authorization; no code exchange happens.
	if provErr := q.Get("error"); provErr != "" {
		h.clearOAuthCookies(w, r)
		desc := q.Get("error_description")
		if desc == "" {
			desc = "the identity provider rejected the sign-in attempt"
		}
		h.writeCallbackFailure(w, r, provErr, errors.New(desc))
		return
	}

	code := q.Get("code")
	state := q.Get("state")
	if code == "" {
		h.writeCallbackFailure(w, r, "missing_code", errors.New("authorization code is required"))
		return
	}
	if state == "" {
		h.writeCallbackFailure(w, r, "missing_state", errors.New("state parameter is required"))
		return
	}

	// Verify state and read nonce
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value != state {
		h.writeCallbackFailure(w, r, "invalid_state", errors.New("invalid or missing state parameter"))
		return
	}
	nonceCookie, err := r.Cookie("oauth_nonce")
	if err != nil {
		h.writeCallbackFailure(w, r, "missing_nonce", errors.New("missing nonce parameter"))
		return
	}

	result, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		// A consumed code on a replayed callback still fails the exchange,
		// but the session from the first pass may be alive and sufficient.
		if user := h.recoverExistingSession(r); user != nil {
			h.clearOAuthCookies(w, r)
			http.Redirect(w, r, h.getPostLoginRedirect(w, r, user), http.StatusFound)
			return
		}
		if apperrors.IsCode(err, apperrors.ErrCodeForbidden) {
			h.clearOAuthCookies(w, r)
			h.writeCallbackFailure(w, r, "email_domain_not_allowed", err)
			return
		}
		h.writeCallbackFailure(w, r, "login_completion_failed", err)
		return
	}

	// Set session cookie and clear temporary OAuth cookies
	h.setSessionCookie(w, r, result.Session)
	h.clearOAuthCookies(w, r)

	http.Redirect(w, r, h.getPostLoginRedirect(w, r, result.User), http.StatusFound)
}

// recoverExistingSession resolves the session cookie, if any, to a live user.
func (h *AuthHandlers) recoverExistingSession(r *http.Request) *domainauth.AppUser {
	cookie, err := r.Cookie("session_id")
	if err != nil {
		return nil
	}
	user, err := h.Svc.ResolveCurrentUser(r.Context(), cookie.Value)
	if err != nil || user == nil {
		return nil
	}
	h.logger().InfoContext(r.Context(), "callback replay recovered existing session",
		"user_id", user.ID)
	return user
}

// Logout handles the logout endpoint.
// POST /auth/logout (GET is also accepted for plain links).
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	// Get session ID from cookie and invalidate server-side session if present
	if sessionCookie, err := r.Cookie("session_id"); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), sessionCookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
		if h.Registry != nil {
			h.Registry.Evict(sessionCookie.Value)
		}
	}

	// Clear session cookie on the client regardless of server-side outcome
	h.clearCookie(w, r, "session_id")

	redirectURI := r.FormValue("redirect_uri")
	if redirectURI == "" {
		redirectURI = r.URL.Query().Get("redirect_uri")
	}
	redirectURI = safeRedirectPath(redirectURI)

	u := url.URL{Path: auth.SignInPath}
	q := url.Values{}
	q.Set("redirect_uri", redirectURI)
	u.RawQuery = q.Encode()
	signInURL := u.String()

	isAJAX := strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
	if isAJAX {
		WriteJSON(w, http.StatusOK, map[string]string{
			"status":      "success",
			"redirect_to": signInURL,
		})
		return
	}

	http.Redirect(w, r, signInURL, http.StatusFound)
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie("session_id")
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	user, err := h.Svc.ResolveCurrentUser(r.Context(), sessionCookie.Value)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeOrphanSession) {
			// Signed in, but no directory record: distinct from signed-out so
			// the client does not silently restart the whole flow.
			WriteJSON(w, http.StatusOK, map[string]any{
				"authenticated": false,
				"error":         string(apperrors.ErrCodeOrphanSession),
				"message":       err.Error(),
			})
			return
		}
		WriteError(w, ErrorParams{
			Code:    http.StatusServiceUnavailable,
			ErrCode: "auth_unavailable",
			Err:     err,
		})
		return
	}
	if user == nil {
		// Session is gone or expired, clear the cookie
		h.clearCookie(w, r, "session_id")
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          user,
		"dashboard":     user.Role.DashboardPath(),
	})
}

// Refresh forces a re-resolve of the caller's directory record. Role and
// activation changes emit no session event, so clients call this after
// actions known to change the record instead of waiting for the next
// sign-in.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie("session_id")
	if err != nil || h.Registry == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("no active session"),
		})
		return
	}

	store := h.Registry.StoreFor(r.Context(), sessionCookie.Value)
	store.RefreshUser(r.Context())
	state := store.Snapshot()

	if state.Err != "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusServiceUnavailable,
			ErrCode: "auth_unavailable",
			Err:     errors.New(state.Err),
		})
		return
	}
	if state.User == nil {
		h.clearCookie(w, r, "session_id")
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          state.User,
		"dashboard":     state.User.Role.DashboardPath(),
	})
}

// writeCallbackFailure reports a failed callback. Browsers land on the
// sign-in page with the failure reason so they can retry; API clients get
// the JSON error directly.
func (h *AuthHandlers) writeCallbackFailure(w http.ResponseWriter, r *http.Request, errCode string, cause error) {
	h.logger().WarnContext(r.Context(), "auth callback failed",
		"reason", errCode, "error", cause)
	if IsBrowserRequest(r) {
		u := url.URL{Path: auth.SignInPath}
		q := url.Values{}
		q.Set("error", errCode)
		u.RawQuery = q.Encode()
		http.Redirect(w, r, u.String(), http.StatusSeeOther)
		return
	}
	WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: errCode, Err: cause})
}

// callbackURL builds the absolute redirect URL the provider sends the
// browser back to, honoring forwarded-proto from a TLS-terminating proxy.
func callbackURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/auth/callback"
}

// clearCookie clears a cookie by setting it to expire immediately.
// It mirrors key attributes (Secure, Path, Domain, SameSite) used when setting cookies
// to maximize compatibility across browsers during deletion.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	cd := h.CookieDomain
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   cd,
		HttpOnly: true,
		Secure:   isSecure,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) clearOAuthCookies(w http.ResponseWriter, r *http.Request) {
	h.clearCookie(w, r, "oauth_state")
	h.clearCookie(w, r, "oauth_nonce")
}

// oauthCookieParams groups values needed to set OAuth cookies (≤3 params rule).
type oauthCookieParams struct {
	State       string
	Nonce       string
	RedirectURI string
}

// setOAuthCookies stores OAuth state, nonce, and the post-login redirect in secure cookies.
func (h *AuthHandlers) setOAuthCookies(w http.ResponseWriter, r *http.Request, p oauthCookieParams) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	cd := h.CookieDomain

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    p.State,
		Path:     "/",
		Domain:   cd,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_nonce",
		Value:    p.Nonce,
		Path:     "/",
		Domain:   cd,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	http.SetCookie(w, &http.Cookie{
		Name:     "post_login_redirect",
		Value:    p.RedirectURI,
		Path:     "/",
		Domain:   cd,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	cd := h.CookieDomain
	http.SetCookie(w, &http.Cookie{
		Name:     "session_id",
		Value:    s.ID,
		Path:     "/",
		Domain:   cd,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}

// getPostLoginRedirect returns the post-login destination and clears the
// cookie. An explicit destination wins; otherwise the user lands on their
// role's dashboard, or the root for an orphan session.
func (h *AuthHandlers) getPostLoginRedirect(w http.ResponseWriter, r *http.Request, user *domainauth.AppUser) string {
	redirectURI := "/"
	if redirectCookie, err := r.Cookie("post_login_redirect"); err == nil {
		redirectURI = safeRedirectPath(redirectCookie.Value)
		h.clearCookie(w, r, "post_login_redirect")
	}
	if redirectURI == "/" && user != nil {
		redirectURI = user.Role.DashboardPath()
	}
	return redirectURI
}
