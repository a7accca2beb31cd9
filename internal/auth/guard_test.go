package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/campushq/internhub/internal/domain/auth"
)

func signedIn(role domainauth.Role, active bool) State {
	return State{
		Initialized: true,
		User: &domainauth.AppUser{
			ID:       "u-1",
			Email:    "ada@campus.edu",
			Role:     role,
			IsActive: active,
		},
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		state  State
		policy Policy
		want   DecisionKind
	}{
		{
			name:   "public route ignores auth state",
			state:  State{Loading: true},
			policy: Public,
			want:   DecisionAllow,
		},
		{
			name:   "uninitialized waits",
			state:  State{Loading: true},
			policy: RequireAuthenticated,
			want:   DecisionWait,
		},
		{
			name:   "loading waits even when initialized",
			state:  State{Initialized: true, Loading: true},
			policy: RequireAuthenticated,
			want:   DecisionWait,
		},
		{
			name:   "no user redirects to sign-in",
			state:  State{Initialized: true},
			policy: RequireAuthenticated,
			want:   DecisionRedirectUnauthenticated,
		},
		{
			name:   "no user with error shows error, no redirect",
			state:  State{Initialized: true, Err: "directory unavailable"},
			policy: RequireAuthenticated,
			want:   DecisionError,
		},
		{
			name:   "error with known user does not block access",
			state:  State{Initialized: true, Err: "timeout", User: signedIn(domainauth.RoleStudent, true).User},
			policy: RequireRoles(domainauth.RoleStudent),
			want:   DecisionAllow,
		},
		{
			name:   "inactive user redirected even with matching role",
			state:  signedIn(domainauth.RoleAdmin, false),
			policy: RequireRoles(domainauth.RoleAdmin),
			want:   DecisionRedirectInactive,
		},
		{
			name:   "inactive user redirected on any-role policy",
			state:  signedIn(domainauth.RoleAdmin, false),
			policy: RequireAuthenticated,
			want:   DecisionRedirectInactive,
		},
		{
			name:   "wrong role redirected",
			state:  signedIn(domainauth.RoleStudent, true),
			policy: RequireRoles(domainauth.RoleTeacher),
			want:   DecisionRedirectWrongRole,
		},
		{
			name:   "matching role allowed",
			state:  signedIn(domainauth.RoleTPOfficer, true),
			policy: RequireRoles(domainauth.RoleTPOfficer, domainauth.RoleAdmin),
			want:   DecisionAllow,
		},
		{
			name:   "any authenticated role allowed on empty role set",
			state:  signedIn(domainauth.RoleTeacher, true),
			policy: RequireAuthenticated,
			want:   DecisionAllow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.state, tt.policy)
			assert.Equal(t, tt.want, got.Kind)
		})
	}
}

func TestEvaluateWrongRoleTargetsOwnDashboard(t *testing.T) {
	// A student hitting the teacher dashboard lands on the student dashboard,
	// never the requested one.
	d := Evaluate(signedIn(domainauth.RoleStudent, true), RequireRoles(domainauth.RoleTeacher))
	assert.Equal(t, DecisionRedirectWrongRole, d.Kind)
	assert.Equal(t, domainauth.RoleStudent, d.ActualRole)
	assert.Equal(t, "/dashboard/student", d.RedirectTarget())
}

func TestDecisionRedirectTarget(t *testing.T) {
	assert.Equal(t, SignInPath, Decision{Kind: DecisionRedirectUnauthenticated}.RedirectTarget())
	assert.Equal(t, SignInPath, Decision{Kind: DecisionRedirectInactive}.RedirectTarget())
	assert.Empty(t, Decision{Kind: DecisionAllow}.RedirectTarget())
	assert.Empty(t, Decision{Kind: DecisionWait}.RedirectTarget())
	assert.Empty(t, Decision{Kind: DecisionError}.RedirectTarget())
}
