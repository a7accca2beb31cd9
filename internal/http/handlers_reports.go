package httpx

import (
	"errors"
	"net/http"

	domainauth "github.com/campushq/internhub/internal/domain/auth"
	"github.com/campushq/internhub/internal/domain/model"
	"github.com/campushq/internhub/internal/service"
)

// ReportHandlers provides HTTP handlers for weekly report operations.
type ReportHandlers struct {
	Svc *service.ReportService
}

const (
	maxReportListLimit = 100 // Maximum number of reports that can be requested in one call
)

// Create handles HTTP requests to submit a weekly report.
// The report is filed for the signed-in student; the body carries no student ID.
func (h *ReportHandlers) Create(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	if user == nil {
		writeMissingUser(w)
		return
	}

	var req model.CreateWeeklyReportRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	report, err := h.Svc.Submit(r.Context(), user.ProfileID, &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, report)
}

// List handles HTTP requests to list weekly reports with pagination.
// Students only ever see their own reports regardless of filters.
func (h *ReportHandlers) List(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	if user == nil {
		writeMissingUser(w)
		return
	}

	limit, offset := ParseLimitOffset(r, 50, maxReportListLimit)
	opts := model.WeeklyReportsListOptions{Limit: limit, Offset: offset}

	if user.Role == domainauth.RoleStudent {
		opts.StudentID = &user.ProfileID
	} else if studentID := r.URL.Query().Get("student_id"); studentID != "" {
		opts.StudentID = &studentID
	}
	if status := r.URL.Query().Get("status"); status != "" {
		st := model.ReportStatus(status)
		if !st.Valid() {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_status",
				Err:     errors.New("status must be one of: submitted, approved, needs_revision"),
			})
			return
		}
		opts.Status = &st
	}
	if week := parseIntQuery(r, "week_number", 0); week > 0 {
		opts.WeekNumber = &week
	}

	reports, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"reports": reports,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetByID handles HTTP requests to get a weekly report by ID.
// Students can only fetch their own reports.
func (h *ReportHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	if user == nil {
		writeMissingUser(w)
		return
	}
	id := r.PathValue("id")
	if id == "" {
		writeMissingID(w, "report")
		return
	}

	var (
		report *model.WeeklyReport
		err    error
	)
	if user.Role == domainauth.RoleStudent {
		report, err = h.Svc.GetOwned(r.Context(), id, user.ProfileID)
	} else {
		report, err = h.Svc.Get(r.Context(), id)
	}
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, report)
}

// Update handles HTTP requests to amend a weekly report.
// Amending a report sent back for revision resubmits it for review.
func (h *ReportHandlers) Update(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	if user == nil {
		writeMissingUser(w)
		return
	}
	id := r.PathValue("id")
	if id == "" {
		writeMissingID(w, "report")
		return
	}

	var req model.UpdateWeeklyReportRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	report, err := h.Svc.Amend(r.Context(), id, user.ProfileID, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, report)
}

// Review handles a teacher's review decision on a report.
// POST /api/reports/{id}/review.
func (h *ReportHandlers) Review(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	if user == nil {
		writeMissingUser(w)
		return
	}
	id := r.PathValue("id")
	if id == "" {
		writeMissingID(w, "report")
		return
	}

	var req model.ReviewWeeklyReportRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	report, err := h.Svc.Review(r.Context(), id, user.ProfileID, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, report)
}

// Delete handles HTTP requests to withdraw a weekly report.
func (h *ReportHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	if user == nil {
		writeMissingUser(w)
		return
	}
	id := r.PathValue("id")
	if id == "" {
		writeMissingID(w, "report")
		return
	}

	if err := h.Svc.Withdraw(r.Context(), id, user.ProfileID); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// writeMissingUser reports a guarded route reached without a user in context,
// which indicates a routing misconfiguration rather than a client fault.
func writeMissingUser(w http.ResponseWriter) {
	WriteError(w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: "authentication_required",
		Err:     errors.New("authentication required"),
	})
}

func writeMissingID(w http.ResponseWriter, resource string) {
	WriteError(w, ErrorParams{
		Code:    http.StatusBadRequest,
		ErrCode: "invalid_path",
		Err:     errors.New(resource + " id is required"),
	})
}
