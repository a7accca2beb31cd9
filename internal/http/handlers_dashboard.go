package httpx

import (
	"fmt"
	"html"
	"net/http"

	domainauth "github.com/campushq/internhub/internal/domain/auth"
)

// DashboardHandlers serves the per-role landing pages. Each page is only
// reachable through the access guard, so by the time a request arrives the
// user is authenticated, active, and holds the page's role.
type DashboardHandlers struct{}

// Home redirects the signed-in user to their own role's dashboard.
// GET /.
func (h *DashboardHandlers) Home(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	if user == nil {
		writeMissingUser(w)
		return
	}
	http.Redirect(w, r, user.Role.DashboardPath(), http.StatusSeeOther)
}

// Show returns the handler for one role's dashboard page.
func (h *DashboardHandlers) Show(role domainauth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r.Context())
		if user == nil {
			writeMissingUser(w)
			return
		}
		if !IsBrowserRequest(r) {
			WriteJSON(w, http.StatusOK, map[string]any{
				"dashboard": string(role),
				"user":      user,
			})
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w,
			`<!doctype html><html><head><title>%s dashboard</title></head><body><h1>%s dashboard</h1><p>Signed in as %s (%s)</p></body></html>`,
			html.EscapeString(string(role)),
			html.EscapeString(string(role)),
			html.EscapeString(user.Name),
			html.EscapeString(user.Email),
		)
	}
}
