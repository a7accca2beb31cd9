package httpx

import (
	"errors"
	"net/http"

	domainauth "github.com/campushq/internhub/internal/domain/auth"
	"github.com/campushq/internhub/internal/domain/model"
	"github.com/campushq/internhub/internal/service"
)

var errInvalidRole = errors.New("role must be one of: student, teacher, tp-officer, admin")

// ProfileHandlers provides HTTP handlers for user profile administration.
type ProfileHandlers struct {
	Svc *service.ProfileService
}

const (
	maxProfileListLimit = 200 // Maximum number of profiles that can be requested in one call
)

// Create handles HTTP requests to create a new user profile.
func (h *ProfileHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserProfileRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	profile, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, profile)
}

// List handles HTTP requests to list user profiles with pagination and filters.
func (h *ProfileHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxProfileListLimit)
	opts := model.UserProfilesListOptions{Limit: limit, Offset: offset}

	if roleValue := r.URL.Query().Get("role"); roleValue != "" {
		role, ok := domainauth.ParseRole(roleValue)
		if !ok {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_role",
				Err:     errInvalidRole,
			})
			return
		}
		opts.Role = &role
	}
	if department := r.URL.Query().Get("department"); department != "" {
		opts.Department = &department
	}
	if active := r.URL.Query().Get("is_active"); active != "" {
		isActive := active == "true"
		opts.IsActive = &isActive
	}
	if q := r.URL.Query().Get("q"); q != "" {
		opts.Q = &q
	}

	profiles, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"profiles": profiles,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetByID handles HTTP requests to get a user profile by ID.
func (h *ProfileHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeMissingID(w, "profile")
		return
	}

	profile, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, profile)
}

// Update handles HTTP requests to update a user profile.
// A role change takes effect the next time the user's session resolves.
func (h *ProfileHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeMissingID(w, "profile")
		return
	}

	var req model.UpdateUserProfileRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	profile, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, profile)
}

// Deactivate handles HTTP requests to deactivate a user profile.
// POST /api/profiles/{id}/deactivate.
func (h *ProfileHandlers) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeMissingID(w, "profile")
		return
	}

	profile, err := h.Svc.Deactivate(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, profile)
}

// Delete handles HTTP requests to delete a user profile.
func (h *ProfileHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeMissingID(w, "profile")
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
