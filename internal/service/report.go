package service

import (
	"context"
	"errors"

	"github.com/campushq/internhub/internal/data"
	"github.com/campushq/internhub/internal/domain/model"
	apperrors "github.com/campushq/internhub/internal/errors"
)

// ReportRepo is the slice of the report repository ReportService needs.
type ReportRepo interface {
	Create(ctx context.Context, studentID string, req *model.CreateWeeklyReportRequest) (*model.WeeklyReport, error)
	GetByID(ctx context.Context, id string) (*model.WeeklyReport, error)
	List(ctx context.Context, opts model.WeeklyReportsListOptions) ([]*model.WeeklyReport, error)
	Update(ctx context.Context, id string, req model.UpdateWeeklyReportRequest) (*model.WeeklyReport, error)
	SetReview(ctx context.Context, id string, status model.ReportStatus, feedback, reviewerID string) (*model.WeeklyReport, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ReportService manages weekly internship reports and the teacher review
// workflow.
type ReportService struct {
	repo ReportRepo
}

// NewReportService constructs a new ReportService.
func NewReportService(repo ReportRepo) *ReportService {
	return &ReportService{repo: repo}
}

// Submit files a new weekly report for studentID.
func (s *ReportService) Submit(ctx context.Context, studentID string, req *model.CreateWeeklyReportRequest) (*model.WeeklyReport, error) {
	report, err := s.repo.Create(ctx, studentID, req)
	if err != nil {
		return nil, mapReportErr(err)
	}
	return report, nil
}

// Get retrieves a report by ID.
func (s *ReportService) Get(ctx context.Context, id string) (*model.WeeklyReport, error) {
	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapReportErr(err)
	}
	return report, nil
}

// GetOwned retrieves a report and verifies it belongs to studentID.
func (s *ReportService) GetOwned(ctx context.Context, id, studentID string) (*model.WeeklyReport, error) {
	report, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.StudentID != studentID {
		// Hide the existence of other students' reports.
		return nil, apperrors.NotFound("weekly report not found")
	}
	return report, nil
}

// List retrieves reports with filters and paging.
func (s *ReportService) List(ctx context.Context, opts model.WeeklyReportsListOptions) ([]*model.WeeklyReport, error) {
	return s.repo.List(ctx, opts)
}

// Amend updates report content on behalf of its owner. Approved reports are
// frozen; amending a report sent back for revision resubmits it.
func (s *ReportService) Amend(ctx context.Context, id, studentID string, req model.UpdateWeeklyReportRequest) (*model.WeeklyReport, error) {
	report, err := s.GetOwned(ctx, id, studentID)
	if err != nil {
		return nil, err
	}
	if !report.Editable() {
		return nil, apperrors.Forbidden("approved reports cannot be amended")
	}
	updated, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, mapReportErr(err)
	}
	return updated, nil
}

// Review records a teacher's decision on a submitted report. Approval
// freezes the report; a revision request must carry feedback and reopens it
// for the student.
func (s *ReportService) Review(ctx context.Context, id, reviewerID string, req model.ReviewWeeklyReportRequest) (*model.WeeklyReport, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	report, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.Status == model.ReportStatusApproved {
		return nil, apperrors.Conflict("report is already approved")
	}

	status := model.ReportStatusNeedsRevision
	if req.Approve {
		status = model.ReportStatusApproved
	}
	reviewed, err := s.repo.SetReview(ctx, id, status, req.Feedback, reviewerID)
	if err != nil {
		return nil, mapReportErr(err)
	}
	return reviewed, nil
}

// Withdraw deletes a report on behalf of its owner. Approved reports cannot
// be withdrawn.
func (s *ReportService) Withdraw(ctx context.Context, id, studentID string) error {
	report, err := s.GetOwned(ctx, id, studentID)
	if err != nil {
		return err
	}
	if !report.Editable() {
		return apperrors.Forbidden("approved reports cannot be withdrawn")
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperrors.Internal("delete report", err)
	}
	if !deleted {
		return apperrors.NotFound("weekly report not found")
	}
	return nil
}

func mapReportErr(err error) error {
	switch {
	case errors.Is(err, data.ErrReportNotFound):
		return apperrors.NotFound("weekly report not found")
	case errors.Is(err, data.ErrReportWeekExists):
		return apperrors.Conflict("a report for this week already exists")
	default:
		return err
	}
}
