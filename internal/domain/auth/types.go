package auth

// Package auth contains domain-level types for authentication, sessions,
// and role-scoped routing. It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application authorization role.
// Kept in string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleStudent   Role = "student"
	RoleTeacher   Role = "teacher"
	RoleTPOfficer Role = "tp-officer"
	RoleAdmin     Role = "admin"
)

// Valid reports whether the role is one of the supported application roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleTPOfficer, RoleAdmin:
		return true
	default:
		return false
	}
}

// DashboardPath returns the dashboard root owned by this role.
// Every role-restricted page lives under this prefix; the access guard's
// wrong-role redirect depends on this convention holding for all roles.
func (r Role) DashboardPath() string {
	return "/dashboard/" + string(r)
}

// ParseRole normalizes a role string and reports whether it is supported.
func ParseRole(value string) (Role, bool) {
	r := Role(value)
	if r.Valid() {
		return r, true
	}
	return "", false
}

// Roles returns all supported roles in display order.
func Roles() []Role {
	return []Role{RoleStudent, RoleTeacher, RoleTPOfficer, RoleAdmin}
}

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID    string // stable identifier from the provider (sub claim)
	Name      string
	Email     string
	ExpiresAt time.Time // absolute expiry from IdP token
}

// Session is the server-side record persisted for an authenticated user.
// ID is an opaque session identifier. The session snapshots the identity at
// sign-in time; the authoritative role/active flag live in the directory
// profile and are re-read on every user resolution.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AppUser is the normalized application-level user derived by joining a live
// session with its directory profile. It is what guards and handlers consume.
type AppUser struct {
	ID         string `json:"id"`
	ProfileID  string `json:"profile_id,omitempty"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	Department string `json:"department,omitempty"`
	IsActive   bool   `json:"is_active"`
}

// CanAccess reports whether the user's role is within the allowed set.
// An empty set means any authenticated role is acceptable.
func (u *AppUser) CanAccess(allowed []Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if u.Role == r {
			return true
		}
	}
	return false
}
