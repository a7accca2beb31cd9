package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	domainauth "github.com/campushq/internhub/internal/domain/auth"
	"github.com/campushq/internhub/internal/domain/model"
	"github.com/campushq/internhub/internal/mocks"
	"github.com/campushq/internhub/internal/service"
)

func teacherUser() *domainauth.AppUser {
	return &domainauth.AppUser{
		ID:        "user-2",
		ProfileID: "profile-2",
		Email:     "teacher@campus.edu",
		Name:      "Teacher Two",
		Role:      domainauth.RoleTeacher,
		IsActive:  true,
	}
}

// requestWithUser injects a user the way the access guard would.
func requestWithUser(r *http.Request, user *domainauth.AppUser) *http.Request {
	return r.WithContext(SetUserInContext(r.Context(), user))
}

func sampleReport(studentID string) *model.WeeklyReport {
	return &model.WeeklyReport{
		ID:          "report-1",
		StudentID:   studentID,
		WeekNumber:  3,
		PeriodStart: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 6, 19, 0, 0, 0, 0, time.UTC),
		Summary:     "Implemented the ingestion pipeline",
		Status:      model.ReportStatusSubmitted,
	}
}

func TestReportHandlers_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockReportRepo(ctrl)
	handlers := &ReportHandlers{Svc: service.NewReportService(repo)}

	repo.EXPECT().
		Create(gomock.Any(), "profile-1", gomock.Any()).
		Return(sampleReport("profile-1"), nil)

	body := `{"week_number":3,"period_start":"2026-06-15T00:00:00Z","period_end":"2026-06-19T00:00:00Z","summary":"Implemented the ingestion pipeline","tasks_completed":"pipeline"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader(body))
	req = requestWithUser(req, studentUser())
	w := httptest.NewRecorder()

	handlers.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"week_number":3`)
}

func TestReportHandlers_List_StudentSeesOnlyOwn(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockReportRepo(ctrl)
	handlers := &ReportHandlers{Svc: service.NewReportService(repo)}

	repo.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, opts model.WeeklyReportsListOptions) ([]*model.WeeklyReport, error) {
			// A student's own filter wins over any query param.
			assert.NotNil(t, opts.StudentID)
			assert.Equal(t, "profile-1", *opts.StudentID)
			return []*model.WeeklyReport{sampleReport("profile-1")}, nil
		})

	req := httptest.NewRequest(http.MethodGet, "/api/reports?student_id=profile-9", nil)
	req = requestWithUser(req, studentUser())
	w := httptest.NewRecorder()

	handlers.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reports"`)
}

func TestReportHandlers_List_TeacherFiltersByStudent(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockReportRepo(ctrl)
	handlers := &ReportHandlers{Svc: service.NewReportService(repo)}

	repo.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, opts model.WeeklyReportsListOptions) ([]*model.WeeklyReport, error) {
			assert.NotNil(t, opts.StudentID)
			assert.Equal(t, "profile-9", *opts.StudentID)
			return nil, nil
		})

	req := httptest.NewRequest(http.MethodGet, "/api/reports?student_id=profile-9", nil)
	req = requestWithUser(req, teacherUser())
	w := httptest.NewRecorder()

	handlers.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReportHandlers_List_InvalidStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockReportRepo(ctrl)
	handlers := &ReportHandlers{Svc: service.NewReportService(repo)}

	req := httptest.NewRequest(http.MethodGet, "/api/reports?status=bogus", nil)
	req = requestWithUser(req, teacherUser())
	w := httptest.NewRecorder()

	handlers.List(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_status")
}

func TestReportHandlers_GetByID_HidesOtherStudentsReports(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockReportRepo(ctrl)
	handlers := &ReportHandlers{Svc: service.NewReportService(repo)}

	repo.EXPECT().
		GetByID(gomock.Any(), "report-1").
		Return(sampleReport("someone-else"), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/report-1", nil)
	req.SetPathValue("id", "report-1")
	req = requestWithUser(req, studentUser())
	w := httptest.NewRecorder()

	handlers.GetByID(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportHandlers_Update_ApprovedReportIsFrozen(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockReportRepo(ctrl)
	handlers := &ReportHandlers{Svc: service.NewReportService(repo)}

	approved := sampleReport("profile-1")
	approved.Status = model.ReportStatusApproved
	repo.EXPECT().GetByID(gomock.Any(), "report-1").Return(approved, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/reports/report-1",
		strings.NewReader(`{"summary":"revised"}`))
	req.SetPathValue("id", "report-1")
	req = requestWithUser(req, studentUser())
	w := httptest.NewRecorder()

	handlers.Update(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReportHandlers_Review_Approve(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockReportRepo(ctrl)
	handlers := &ReportHandlers{Svc: service.NewReportService(repo)}

	repo.EXPECT().GetByID(gomock.Any(), "report-1").Return(sampleReport("profile-1"), nil)
	approved := sampleReport("profile-1")
	approved.Status = model.ReportStatusApproved
	repo.EXPECT().
		SetReview(gomock.Any(), "report-1", model.ReportStatusApproved, "", "profile-2").
		Return(approved, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/reports/report-1/review",
		strings.NewReader(`{"approve":true}`))
	req.SetPathValue("id", "report-1")
	req = requestWithUser(req, teacherUser())
	w := httptest.NewRecorder()

	handlers.Review(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"approved"`)
}

func TestReportHandlers_Review_RevisionRequiresFeedback(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockReportRepo(ctrl)
	handlers := &ReportHandlers{Svc: service.NewReportService(repo)}

	req := httptest.NewRequest(http.MethodPost, "/api/reports/report-1/review",
		strings.NewReader(`{"approve":false}`))
	req.SetPathValue("id", "report-1")
	req = requestWithUser(req, teacherUser())
	w := httptest.NewRecorder()

	handlers.Review(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandlers_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockReportRepo(ctrl)
	handlers := &ReportHandlers{Svc: service.NewReportService(repo)}

	repo.EXPECT().GetByID(gomock.Any(), "report-1").Return(sampleReport("profile-1"), nil)
	repo.EXPECT().Delete(gomock.Any(), "report-1").Return(true, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/reports/report-1", nil)
	req.SetPathValue("id", "report-1")
	req = requestWithUser(req, studentUser())
	w := httptest.NewRecorder()

	handlers.Delete(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deleted":true`)
}
