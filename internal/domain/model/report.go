package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxReportSummaryLen  = 4000
	maxReportFeedbackLen = 2000
	maxWeekNumber        = 52
)

// ReportStatus tracks a weekly report through the review workflow.
type ReportStatus string

const (
	ReportStatusSubmitted     ReportStatus = "submitted"
	ReportStatusApproved      ReportStatus = "approved"
	ReportStatusNeedsRevision ReportStatus = "needs_revision"
)

// Valid reports whether the status is supported.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusSubmitted, ReportStatusApproved, ReportStatusNeedsRevision:
		return true
	default:
		return false
	}
}

// WeeklyReport is a student's internship progress report for one week.
// One report exists per student per week number.
type WeeklyReport struct {
	ID              string       `json:"id"                         db:"id"`
	StudentID       string       `json:"student_id"                 db:"student_id"`
	WeekNumber      int          `json:"week_number"                db:"week_number"`
	PeriodStart     time.Time    `json:"period_start"               db:"period_start"`
	PeriodEnd       time.Time    `json:"period_end"                 db:"period_end"`
	Summary         string       `json:"summary"                    db:"summary"`
	TasksCompleted  string       `json:"tasks_completed"            db:"tasks_completed"`
	Learnings       string       `json:"learnings"                  db:"learnings"`
	Status          ReportStatus `json:"status"                     db:"status"`
	TeacherFeedback *string      `json:"teacher_feedback,omitempty" db:"teacher_feedback"`
	ReviewedBy      *string      `json:"reviewed_by,omitempty"      db:"reviewed_by"`
	ReviewedAt      *time.Time   `json:"reviewed_at,omitempty"      db:"reviewed_at"`
	CreatedAt       time.Time    `json:"created_at"                 db:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"                 db:"updated_at"`
}

// Editable reports whether a student may still amend this report.
// Approved reports are frozen; reports sent back for revision reopen.
func (r *WeeklyReport) Editable() bool {
	return r.Status != ReportStatusApproved
}

// CreateWeeklyReportRequest represents parameters to submit a weekly report.
type CreateWeeklyReportRequest struct {
	WeekNumber     int       `json:"week_number"`
	PeriodStart    time.Time `json:"period_start"`
	PeriodEnd      time.Time `json:"period_end"`
	Summary        string    `json:"summary"`
	TasksCompleted string    `json:"tasks_completed"`
	Learnings      string    `json:"learnings,omitempty"`
}

// UpdateWeeklyReportRequest represents parameters to amend a weekly report.
// Amending a report sent back for revision resubmits it.
type UpdateWeeklyReportRequest struct {
	Summary        *string `json:"summary,omitempty"`
	TasksCompleted *string `json:"tasks_completed,omitempty"`
	Learnings      *string `json:"learnings,omitempty"`
}

// ReviewWeeklyReportRequest represents a teacher's review decision.
type ReviewWeeklyReportRequest struct {
	Approve  bool   `json:"approve"`
	Feedback string `json:"feedback,omitempty"`
}

// WeeklyReportsListOptions controls paging and filtering for listing reports.
type WeeklyReportsListOptions struct {
	Limit      int
	Offset     int
	StudentID  *string       // exact match
	Status     *ReportStatus // exact match
	WeekNumber *int          // exact match
}

// Validate validates CreateWeeklyReportRequest.
func (r *CreateWeeklyReportRequest) Validate() error {
	if r.WeekNumber < 1 || r.WeekNumber > maxWeekNumber {
		return errors.New("week_number must be between 1 and 52")
	}
	if r.PeriodStart.IsZero() || r.PeriodEnd.IsZero() {
		return errors.New("period_start and period_end are required")
	}
	if !r.PeriodEnd.After(r.PeriodStart) {
		return errors.New("period_end must be after period_start")
	}
	if strings.TrimSpace(r.Summary) == "" {
		return errors.New("summary is required")
	}
	if utf8.RuneCountInString(r.Summary) > maxReportSummaryLen {
		return errors.New("summary cannot exceed 4000 characters")
	}
	if strings.TrimSpace(r.TasksCompleted) == "" {
		return errors.New("tasks_completed is required")
	}
	if utf8.RuneCountInString(r.TasksCompleted) > maxReportSummaryLen {
		return errors.New("tasks_completed cannot exceed 4000 characters")
	}
	if utf8.RuneCountInString(r.Learnings) > maxReportSummaryLen {
		return errors.New("learnings cannot exceed 4000 characters")
	}
	return nil
}

// Validate validates UpdateWeeklyReportRequest.
func (r *UpdateWeeklyReportRequest) Validate() error {
	if r.Summary != nil {
		if strings.TrimSpace(*r.Summary) == "" {
			return errors.New("summary cannot be empty")
		}
		if utf8.RuneCountInString(*r.Summary) > maxReportSummaryLen {
			return errors.New("summary cannot exceed 4000 characters")
		}
	}
	if r.TasksCompleted != nil {
		if strings.TrimSpace(*r.TasksCompleted) == "" {
			return errors.New("tasks_completed cannot be empty")
		}
		if utf8.RuneCountInString(*r.TasksCompleted) > maxReportSummaryLen {
			return errors.New("tasks_completed cannot exceed 4000 characters")
		}
	}
	if r.Learnings != nil && utf8.RuneCountInString(*r.Learnings) > maxReportSummaryLen {
		return errors.New("learnings cannot exceed 4000 characters")
	}
	return nil
}

// Validate validates ReviewWeeklyReportRequest.
// Sending a report back for revision requires feedback the student can act on.
func (r *ReviewWeeklyReportRequest) Validate() error {
	if !r.Approve && strings.TrimSpace(r.Feedback) == "" {
		return errors.New("feedback is required when requesting revision")
	}
	if utf8.RuneCountInString(r.Feedback) > maxReportFeedbackLen {
		return errors.New("feedback cannot exceed 2000 characters")
	}
	return nil
}
