package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/internhub/internal/auth"
	domainauth "github.com/campushq/internhub/internal/domain/auth"
)

// stubAuthClient resolves sessions from fixed maps.
type stubAuthClient struct {
	users map[string]*domainauth.AppUser
	errs  map[string]error
}

func (c *stubAuthClient) ResolveCurrentUser(_ context.Context, sessionID string) (*domainauth.AppUser, error) {
	if err := c.errs[sessionID]; err != nil {
		return nil, err
	}
	return c.users[sessionID], nil
}

func (c *stubAuthClient) SubscribeSessionChanges(
	_ context.Context,
	_ string,
	_ func(*domainauth.AppUser),
) (func(), error) {
	return func() {}, nil
}

func newGuardFixture(t *testing.T, client *stubAuthClient) GuardOptions {
	t.Helper()
	registry := auth.NewRegistry(auth.RegistryOptions{Client: client})
	t.Cleanup(registry.Close)
	return GuardOptions{Registry: registry}
}

func studentUser() *domainauth.AppUser {
	return &domainauth.AppUser{
		ID:        "user-1",
		ProfileID: "profile-1",
		Email:     "student@campus.edu",
		Name:      "Student One",
		Role:      domainauth.RoleStudent,
		IsActive:  true,
	}
}

func TestGuard_PublicAlwaysAllows(t *testing.T) {
	opts := newGuardFixture(t, &stubAuthClient{})
	handler := Guard(opts, auth.Public)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/about", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGuard_UnauthenticatedBrowserRedirectsToSignIn(t *testing.T) {
	opts := newGuardFixture(t, &stubAuthClient{})
	handler := Guard(opts, auth.RequireAuthenticated)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard/student", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/login?redirect_uri=%2Fdashboard%2Fstudent", w.Header().Get("Location"))
}

func TestGuard_UnauthenticatedAPIGets401(t *testing.T) {
	opts := newGuardFixture(t, &stubAuthClient{})
	handler := Guard(opts, auth.RequireAuthenticated)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication_required")
}

func TestGuard_AllowedRolePassesWithUserInContext(t *testing.T) {
	client := &stubAuthClient{users: map[string]*domainauth.AppUser{"sess-1": studentUser()}}
	opts := newGuardFixture(t, client)

	var seen *domainauth.AppUser
	handler := Guard(opts, auth.RequireRoles(domainauth.RoleStudent))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = CurrentUser(r.Context())
			assert.Equal(t, "sess-1", GetSessionIDFromContext(r.Context()))
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "profile-1", seen.ProfileID)
}

func TestGuard_WrongRoleBrowserRedirectsToOwnDashboard(t *testing.T) {
	client := &stubAuthClient{users: map[string]*domainauth.AppUser{"sess-1": studentUser()}}
	opts := newGuardFixture(t, client)
	handler := Guard(opts, auth.RequireRoles(domainauth.RoleTeacher))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be called")
		}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard/teacher", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard/student", w.Header().Get("Location"))
}

func TestGuard_WrongRoleAPIGets403(t *testing.T) {
	client := &stubAuthClient{users: map[string]*domainauth.AppUser{"sess-1": studentUser()}}
	opts := newGuardFixture(t, client)
	handler := Guard(opts, auth.RequireRoles(domainauth.RoleAdmin))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be called")
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/profiles", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient_permissions")
}

func TestGuard_DeactivatedUserBouncesToSignIn(t *testing.T) {
	inactive := studentUser()
	inactive.IsActive = false
	client := &stubAuthClient{users: map[string]*domainauth.AppUser{"sess-1": inactive}}
	opts := newGuardFixture(t, client)
	handler := Guard(opts, auth.RequireRoles(domainauth.RoleStudent))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be called")
		}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard/student", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/login?reason=inactive", w.Header().Get("Location"))
}

func TestGuard_ResolutionFailureIsHeldNotRedirected(t *testing.T) {
	client := &stubAuthClient{errs: map[string]error{"sess-1": errors.New("directory unavailable")}}
	opts := newGuardFixture(t, client)
	handler := Guard(opts, auth.RequireAuthenticated)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be called")
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "auth_unavailable")
	assert.Empty(t, w.Header().Get("Location"))
}

func TestGuard_ResolutionFailureBrowserShowsRecoveryPage(t *testing.T) {
	client := &stubAuthClient{errs: map[string]error{"sess-1": errors.New("directory unavailable")}}
	opts := newGuardFixture(t, client)
	handler := Guard(opts, auth.RequireAuthenticated)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be called")
		}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard/student", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "Try again")
	assert.Contains(t, w.Body.String(), "sign out")
}

func TestIsBrowserRequest(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		accept string
		want   bool
	}{
		{name: "api path", path: "/api/reports", accept: "text/html", want: false},
		{name: "html accept", path: "/dashboard/student", accept: "text/html,application/xhtml+xml", want: true},
		{name: "no accept header", path: "/dashboard/student", accept: "", want: true},
		{name: "json accept", path: "/auth/status", accept: "application/json", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			assert.Equal(t, tt.want, IsBrowserRequest(req))
		})
	}
}
