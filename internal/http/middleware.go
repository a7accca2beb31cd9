package httpx

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"github.com/campushq/internhub/internal/auth"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// browserRequestKey is an unexported context key type for browser request detection.
type browserRequestKey struct{}

// BrowserDetection returns a middleware that detects browser requests vs API requests.
// It sets a context value that can be used by downstream handlers to determine
// whether to return HTML or JSON responses.
func BrowserDetection() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			isBrowser := isBrowserRequest(r)
			ctx := context.WithValue(r.Context(), browserRequestKey{}, isBrowser)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsBrowserRequest returns true if the current request is from a browser.
func IsBrowserRequest(r *http.Request) bool {
	if val := r.Context().Value(browserRequestKey{}); val != nil {
		if isBrowser, ok := val.(bool); ok {
			return isBrowser
		}
	}
	// Fallback to direct detection if middleware wasn't used
	return isBrowserRequest(r)
}

// isBrowserRequest determines if a request is from a browser based on:
// 1. Path prefix - API routes start with /api/
// 2. Accept header - browsers typically accept text/html.
func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return false
	}

	accept := r.Header.Get("Accept")
	if accept == "" {
		// No Accept header, assume browser for non-API routes
		return true
	}

	return strings.Contains(accept, "text/html")
}

// GuardOptions groups the dependencies of the access guard middleware.
type GuardOptions struct {
	Registry *auth.Registry
	Logger   *slog.Logger
}

func (g GuardOptions) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

// Guard returns a middleware that enforces an access policy over the
// per-session auth state. It snapshots the session's store, runs the
// decision table, and acts on the verdict: allowed requests proceed with
// the user in context, redirect verdicts become 303s for browsers and
// JSON errors for API calls, and an undetermined state is held rather
// than bounced to sign-in.
func Guard(opts GuardOptions, policy auth.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := sessionIDFromRequest(r)

			// No cookie means definitively signed out; skip the registry so
			// anonymous traffic never allocates per-session state.
			st := auth.State{Initialized: true}
			if sessionID != "" {
				st = opts.Registry.StoreFor(r.Context(), sessionID).Snapshot()
			}

			decision := auth.Evaluate(st, policy)
			switch decision.Kind {
			case auth.DecisionAllow:
				ctx := SetSessionIDInContext(r.Context(), sessionID)
				ctx = SetUserInContext(ctx, st.User)
				next.ServeHTTP(w, r.WithContext(ctx))

			case auth.DecisionWait:
				writeAuthPending(w, r)

			case auth.DecisionRedirectUnauthenticated:
				if IsBrowserRequest(r) {
					redirectToSignIn(w, r)
					return
				}
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})

			case auth.DecisionRedirectInactive:
				if IsBrowserRequest(r) {
					http.Redirect(w, r, decision.RedirectTarget()+"?reason=inactive", http.StatusSeeOther)
					return
				}
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "account_inactive",
					Err:     errors.New(decision.Message),
				})

			case auth.DecisionRedirectWrongRole:
				if IsBrowserRequest(r) {
					http.Redirect(w, r, decision.RedirectTarget(), http.StatusSeeOther)
					return
				}
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "insufficient_permissions",
					Err:     errors.New("insufficient permissions"),
				})

			case auth.DecisionError:
				opts.logger().WarnContext(r.Context(), "auth state undetermined",
					slog.String("path", r.URL.Path), slog.String("detail", decision.Message))
				writeAuthError(w, r, decision.Message)

			default:
				WriteError(w, ErrorParams{
					Code:    http.StatusInternalServerError,
					ErrCode: "guard_failed",
					Err:     fmt.Errorf("unhandled access decision %q", decision.Kind),
				})
			}
		})
	}
}

// sessionIDFromRequest reads the session identifier cookie, or "".
func sessionIDFromRequest(r *http.Request) string {
	cookie, err := r.Cookie("session_id")
	if err != nil {
		return ""
	}
	return cookie.Value
}

// redirectToSignIn redirects browser requests to the sign-in page with the
// current URL as redirect_uri.
func redirectToSignIn(w http.ResponseWriter, r *http.Request) {
	redirectPath := safeRedirectPath(r.URL.RequestURI())
	signInURL := auth.SignInPath + "?redirect_uri=" + url.QueryEscape(redirectPath)
	http.Redirect(w, r, signInURL, http.StatusSeeOther)
}

// writeAuthPending tells the client the auth state is still being determined.
// Browsers get a minimal self-refreshing page; API clients get a 503 with
// Retry-After so they poll instead of treating it as signed-out.
func writeAuthPending(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "1")
	if IsBrowserRequest(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `<!doctype html><html><head><meta http-equiv="refresh" content="1"><title>Signing you in</title></head><body><p>Checking your session…</p></body></html>`)
		return
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusServiceUnavailable,
		ErrCode: "auth_pending",
		Err:     errors.New("authentication state is being determined; retry shortly"),
	})
}

// writeAuthError explains an undetermined auth state and offers recovery
// actions instead of redirecting, which could strand a user whose session
// is actually fine.
func writeAuthError(w http.ResponseWriter, r *http.Request, detail string) {
	if detail == "" {
		detail = "could not verify your session"
	}
	if IsBrowserRequest(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintf(w, `<!doctype html><html><head><title>Sign-in problem</title></head><body><h1>We could not verify your session</h1><p>%s</p><p><a href="%s">Try again</a> or <a href="/auth/logout">sign out</a>.</p></body></html>`,
			html.EscapeString(detail), html.EscapeString(safeRedirectPath(r.URL.RequestURI())))
		return
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusServiceUnavailable,
		ErrCode: "auth_unavailable",
		Err:     errors.New(detail),
	})
}
