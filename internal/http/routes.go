package httpx

import (
	"log/slog"
	"net/http"

	"github.com/campushq/internhub/internal/auth"
	domainauth "github.com/campushq/internhub/internal/domain/auth"
	"github.com/campushq/internhub/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth     *service.AuthService
	Profiles *service.ProfileService
	Reports  *service.ReportService
	NOC      *service.NOCService
	// Registry holds the per-session auth state stores the guard consults.
	Registry     *auth.Registry
	CookieDomain string
	Logger       *slog.Logger
}

// NewRouter creates and configures a new HTTP router with browser middleware.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	guardOpts := GuardOptions{Registry: services.Registry, Logger: services.Logger}
	guard := func(policy auth.Policy) func(http.Handler) http.Handler {
		return Guard(guardOpts, policy)
	}

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		Registry:     services.Registry,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}
	registerAuthRoutes(mux, authHandlers)

	registerReportRoutes(mux, &ReportHandlers{Svc: services.Reports}, guard)
	registerNOCRoutes(mux, &NOCHandlers{Svc: services.NOC}, guard)
	registerProfileRoutes(mux, &ProfileHandlers{Svc: services.Profiles}, guard)
	registerDashboardRoutes(mux, &DashboardHandlers{}, guard)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return BrowserDetection()(mux)
}

type guardFactory func(auth.Policy) func(http.Handler) http.Handler

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
	mux.HandleFunc("POST /auth/refresh", h.Refresh)
}

func registerReportRoutes(mux *http.ServeMux, h *ReportHandlers, guard guardFactory) {
	student := guard(auth.RequireRoles(domainauth.RoleStudent))
	reader := guard(auth.RequireRoles(
		domainauth.RoleStudent, domainauth.RoleTeacher, domainauth.RoleAdmin))
	teacher := guard(auth.RequireRoles(domainauth.RoleTeacher))

	mux.Handle("POST /api/reports", student(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/reports", reader(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/reports/{id}", reader(http.HandlerFunc(h.GetByID)))
	mux.Handle("PUT /api/reports/{id}", student(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/reports/{id}", student(http.HandlerFunc(h.Delete)))
	mux.Handle("POST /api/reports/{id}/review", teacher(http.HandlerFunc(h.Review)))
}

func registerNOCRoutes(mux *http.ServeMux, h *NOCHandlers, guard guardFactory) {
	student := guard(auth.RequireRoles(domainauth.RoleStudent))
	reader := guard(auth.RequireRoles(
		domainauth.RoleStudent, domainauth.RoleTPOfficer, domainauth.RoleAdmin))
	officer := guard(auth.RequireRoles(domainauth.RoleTPOfficer))

	mux.Handle("POST /api/noc-requests", student(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/noc-requests", reader(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/noc-requests/{id}", reader(http.HandlerFunc(h.GetByID)))
	mux.Handle("DELETE /api/noc-requests/{id}", student(http.HandlerFunc(h.Delete)))
	mux.Handle("POST /api/noc-requests/{id}/decision", officer(http.HandlerFunc(h.Decide)))
}

func registerProfileRoutes(mux *http.ServeMux, h *ProfileHandlers, guard guardFactory) {
	admin := guard(auth.RequireRoles(domainauth.RoleAdmin))

	mux.Handle("POST /api/profiles", admin(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/profiles", admin(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/profiles/{id}", admin(http.HandlerFunc(h.GetByID)))
	mux.Handle("PUT /api/profiles/{id}", admin(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/profiles/{id}", admin(http.HandlerFunc(h.Delete)))
	mux.Handle("POST /api/profiles/{id}/deactivate", admin(http.HandlerFunc(h.Deactivate)))
}

func registerDashboardRoutes(mux *http.ServeMux, h *DashboardHandlers, guard guardFactory) {
	anyUser := guard(auth.RequireAuthenticated)
	mux.Handle("GET /{$}", anyUser(http.HandlerFunc(h.Home)))

	// Each dashboard admits only its own role; the guard bounces everyone
	// else to their own dashboard rather than showing a 403.
	for _, role := range domainauth.Roles() {
		roleOnly := guard(auth.RequireRoles(role))
		mux.Handle("GET "+role.DashboardPath(), roleOnly(h.Show(role)))
	}
}
