//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	domainauth "github.com/campushq/internhub/internal/domain/auth"
)

const (
	maxProfileNameLen  = 255
	maxDepartmentLen   = 120
	maxProfileEmailLen = 320
)

// UserProfile is the directory record mapping an authenticated identity to an
// application user. A live session without a matching profile is an orphan
// session, a distinct condition from "not signed in".
type UserProfile struct {
	ID         string          `json:"id"         db:"id"`
	UserID     string          `json:"user_id"    db:"user_id"`
	Email      string          `json:"email"      db:"email"`
	Name       string          `json:"name"       db:"name"`
	Role       domainauth.Role `json:"role"       db:"role"`
	Department string          `json:"department" db:"department"`
	IsActive   bool            `json:"is_active"  db:"is_active"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// AppUser derives the normalized application user from the profile.
func (p *UserProfile) AppUser() *domainauth.AppUser {
	return &domainauth.AppUser{
		ID:         p.UserID,
		ProfileID:  p.ID,
		Email:      p.Email,
		Name:       p.Name,
		Role:       p.Role,
		Department: p.Department,
		IsActive:   p.IsActive,
	}
}

// CreateUserProfileRequest represents parameters to create a UserProfile.
type CreateUserProfileRequest struct {
	UserID     string          `json:"user_id"`
	Email      string          `json:"email"`
	Name       string          `json:"name"`
	Role       domainauth.Role `json:"role"`
	Department string          `json:"department,omitempty"`
	IsActive   *bool           `json:"is_active,omitempty"`
}

// UpdateUserProfileRequest represents parameters to update a UserProfile.
// Role and IsActive changes take effect on the user's next session refresh.
type UpdateUserProfileRequest struct {
	Email      *string          `json:"email,omitempty"`
	Name       *string          `json:"name,omitempty"`
	Role       *domainauth.Role `json:"role,omitempty"`
	Department *string          `json:"department,omitempty"`
	IsActive   *bool            `json:"is_active,omitempty"`
}

// UserProfilesListOptions controls paging and filtering for listing profiles.
type UserProfilesListOptions struct {
	Limit      int
	Offset     int
	Role       *domainauth.Role // exact match
	Department *string          // exact match
	IsActive   *bool            // exact match
	Q          *string          // substring match on name or email (ILIKE)
}

// Validate validates CreateUserProfileRequest.
func (r *CreateUserProfileRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	if err := validateProfileEmail(r.Email); err != nil {
		return err
	}
	if err := validateProfileName(r.Name); err != nil {
		return err
	}
	if !r.Role.Valid() {
		return errors.New("role must be one of: student, teacher, tp-officer, admin")
	}
	if utf8.RuneCountInString(r.Department) > maxDepartmentLen {
		return errors.New("department cannot exceed 120 characters")
	}
	return nil
}

// Validate validates UpdateUserProfileRequest.
func (r *UpdateUserProfileRequest) Validate() error {
	if r.Email != nil {
		if err := validateProfileEmail(*r.Email); err != nil {
			return err
		}
	}
	if r.Name != nil {
		if err := validateProfileName(*r.Name); err != nil {
			return err
		}
	}
	if r.Role != nil && !r.Role.Valid() {
		return errors.New("role must be one of: student, teacher, tp-officer, admin")
	}
	if r.Department != nil && utf8.RuneCountInString(*r.Department) > maxDepartmentLen {
		return errors.New("department cannot exceed 120 characters")
	}
	return nil
}

func validateProfileEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}
	if len(email) > maxProfileEmailLen {
		return errors.New("email cannot exceed 320 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("email is not a valid address")
	}
	return nil
}

func validateProfileName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("name is required")
	}
	if utf8.RuneCountInString(name) > maxProfileNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	return nil
}
