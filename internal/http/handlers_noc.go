package httpx

import (
	"errors"
	"net/http"

	domainauth "github.com/campushq/internhub/internal/domain/auth"
	"github.com/campushq/internhub/internal/domain/model"
	"github.com/campushq/internhub/internal/service"
)

// NOCHandlers provides HTTP handlers for No-Objection-Certificate requests.
type NOCHandlers struct {
	Svc *service.NOCService
}

const (
	maxNOCListLimit = 100 // Maximum number of NOC requests that can be requested in one call
)

// Create handles HTTP requests to submit a NOC request for the signed-in student.
func (h *NOCHandlers) Create(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	if user == nil {
		writeMissingUser(w)
		return
	}

	var req model.CreateNOCRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	noc, err := h.Svc.Submit(r.Context(), user.ProfileID, &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, noc)
}

// List handles HTTP requests to list NOC requests with pagination.
// Students only ever see their own requests regardless of filters.
func (h *NOCHandlers) List(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	if user == nil {
		writeMissingUser(w)
		return
	}

	limit, offset := ParseLimitOffset(r, 50, maxNOCListLimit)
	opts := model.NOCRequestsListOptions{Limit: limit, Offset: offset}

	if user.Role == domainauth.RoleStudent {
		opts.StudentID = &user.ProfileID
	} else if studentID := r.URL.Query().Get("student_id"); studentID != "" {
		opts.StudentID = &studentID
	}
	if status := r.URL.Query().Get("status"); status != "" {
		st := model.NOCStatus(status)
		if !st.Valid() {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_status",
				Err:     errors.New("status must be one of: pending, approved, rejected"),
			})
			return
		}
		opts.Status = &st
	}

	requests, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"noc_requests": requests,
		"limit":        limit,
		"offset":       offset,
	})
}

// GetByID handles HTTP requests to get a NOC request by ID.
// Students can only fetch their own requests.
func (h *NOCHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	if user == nil {
		writeMissingUser(w)
		return
	}
	id := r.PathValue("id")
	if id == "" {
		writeMissingID(w, "noc request")
		return
	}

	var (
		noc *model.NOCRequest
		err error
	)
	if user.Role == domainauth.RoleStudent {
		noc, err = h.Svc.GetOwned(r.Context(), id, user.ProfileID)
	} else {
		noc, err = h.Svc.Get(r.Context(), id)
	}
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, noc)
}

// Decide handles a placement officer's decision on a pending request.
// POST /api/noc-requests/{id}/decision. Approval assigns the certificate number.
func (h *NOCHandlers) Decide(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	if user == nil {
		writeMissingUser(w)
		return
	}
	id := r.PathValue("id")
	if id == "" {
		writeMissingID(w, "noc request")
		return
	}

	var req model.DecideNOCRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	noc, err := h.Svc.Decide(r.Context(), id, user.ProfileID, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, noc)
}

// Delete handles HTTP requests to withdraw a pending NOC request.
func (h *NOCHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	if user == nil {
		writeMissingUser(w)
		return
	}
	id := r.PathValue("id")
	if id == "" {
		writeMissingID(w, "noc request")
		return
	}

	if err := h.Svc.Withdraw(r.Context(), id, user.ProfileID); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
