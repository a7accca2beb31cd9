package auth

import (
	domainauth "github.com/campushq/internhub/internal/domain/auth"
)

// SignInPath is where unauthenticated and deactivated principals are sent.
const SignInPath = "/auth/login"

// Policy declares the access requirements for a protected surface.
type Policy struct {
	// RequireAuth gates the surface at all. False means public: always allow,
	// regardless of auth state.
	RequireAuth bool
	// AllowedRoles restricts access to the listed roles. Empty means any
	// authenticated, active role.
	AllowedRoles []domainauth.Role
}

// Public is the policy for unprotected surfaces.
var Public = Policy{}

// RequireAuthenticated admits any authenticated, active user.
var RequireAuthenticated = Policy{RequireAuth: true}

// RequireRoles admits only authenticated, active users holding one of roles.
func RequireRoles(roles ...domainauth.Role) Policy {
	return Policy{RequireAuth: true, AllowedRoles: roles}
}

// DecisionKind enumerates guard outcomes.
type DecisionKind string

const (
	// DecisionAllow admits the request.
	DecisionAllow DecisionKind = "allow"
	// DecisionWait means auth state is not yet determined; hold, never
	// redirect.
	DecisionWait DecisionKind = "wait"
	// DecisionRedirectUnauthenticated sends the principal to sign-in.
	DecisionRedirectUnauthenticated DecisionKind = "redirect_unauthenticated"
	// DecisionRedirectInactive sends a deactivated user back to sign-in.
	DecisionRedirectInactive DecisionKind = "redirect_inactive"
	// DecisionRedirectWrongRole sends an authenticated user of the wrong role
	// to their own dashboard.
	DecisionRedirectWrongRole DecisionKind = "redirect_wrong_role"
	// DecisionError means the auth state could not be determined and no user
	// is known; show an explanation with recovery actions, do not redirect.
	DecisionError DecisionKind = "error"
)

// Decision is the guard's verdict for one request.
type Decision struct {
	Kind DecisionKind
	// ActualRole is the signed-in user's own role; set for wrong-role
	// redirects so the caller can target that user's dashboard.
	ActualRole domainauth.Role
	// Message explains error and redirect-inactive outcomes.
	Message string
}

// RedirectTarget returns the path redirect decisions point at, or "" for
// non-redirect decisions. Wrong-role redirects target the user's OWN
// dashboard, never the requested one.
func (d Decision) RedirectTarget() string {
	switch d.Kind {
	case DecisionRedirectUnauthenticated, DecisionRedirectInactive:
		return SignInPath
	case DecisionRedirectWrongRole:
		return d.ActualRole.DashboardPath()
	default:
		return ""
	}
}

// Evaluate runs the access decision table over a state snapshot. It is a
// pure function of its inputs; checks run in a fixed order so each outcome
// has one unambiguous cause:
//
//	public -> not-yet-initialized -> no user (error or sign-in) ->
//	deactivated -> wrong role -> allow
//
// Notably the inactive check precedes the role check, so a deactivated user
// is sent to sign-in even when their role would match.
func Evaluate(st State, p Policy) Decision {
	if !p.RequireAuth {
		return Decision{Kind: DecisionAllow}
	}
	if !st.Initialized || st.Loading {
		return Decision{Kind: DecisionWait}
	}
	if st.User == nil {
		if st.Err != "" {
			// Unknown state is not the same as signed-out: bouncing to
			// sign-in here could strand a user whose session is fine.
			return Decision{Kind: DecisionError, Message: st.Err}
		}
		return Decision{Kind: DecisionRedirectUnauthenticated}
	}
	if !st.User.IsActive {
		return Decision{Kind: DecisionRedirectInactive, Message: "account is deactivated"}
	}
	if !st.User.CanAccess(p.AllowedRoles) {
		return Decision{Kind: DecisionRedirectWrongRole, ActualRole: st.User.Role}
	}
	return Decision{Kind: DecisionAllow}
}
