package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxCompanyNameLen = 255
	maxAddressLen     = 500
	maxPositionLen    = 120
	maxRemarksLen     = 2000
)

// NOCStatus tracks a No-Objection-Certificate request through the
// placement officer's decision workflow.
type NOCStatus string

const (
	NOCStatusPending  NOCStatus = "pending"
	NOCStatusApproved NOCStatus = "approved"
	NOCStatusRejected NOCStatus = "rejected"
)

// Valid reports whether the status is supported.
func (s NOCStatus) Valid() bool {
	switch s {
	case NOCStatusPending, NOCStatusApproved, NOCStatusRejected:
		return true
	default:
		return false
	}
}

// NOCRequest is a student's request for a No-Objection Certificate covering
// an internship engagement. A certificate number is assigned on approval.
type NOCRequest struct {
	ID                string     `json:"id"                           db:"id"`
	StudentID         string     `json:"student_id"                   db:"student_id"`
	CompanyName       string     `json:"company_name"                 db:"company_name"`
	CompanyAddress    string     `json:"company_address"              db:"company_address"`
	Position          string     `json:"position"                     db:"position"`
	StartDate         time.Time  `json:"start_date"                   db:"start_date"`
	EndDate           time.Time  `json:"end_date"                     db:"end_date"`
	StipendPerMonth   *int       `json:"stipend_per_month,omitempty"  db:"stipend_per_month"`
	Status            NOCStatus  `json:"status"                       db:"status"`
	OfficerRemarks    *string    `json:"officer_remarks,omitempty"    db:"officer_remarks"`
	DecidedBy         *string    `json:"decided_by,omitempty"         db:"decided_by"`
	DecidedAt         *time.Time `json:"decided_at,omitempty"         db:"decided_at"`
	CertificateNumber *string    `json:"certificate_number,omitempty" db:"certificate_number"`
	CreatedAt         time.Time  `json:"created_at"                   db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"                   db:"updated_at"`
}

// CreateNOCRequest represents parameters to submit a NOC request.
type CreateNOCRequest struct {
	CompanyName     string    `json:"company_name"`
	CompanyAddress  string    `json:"company_address"`
	Position        string    `json:"position"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	StipendPerMonth *int      `json:"stipend_per_month,omitempty"`
}

// DecideNOCRequest represents a placement officer's decision on a request.
type DecideNOCRequest struct {
	Approve bool   `json:"approve"`
	Remarks string `json:"remarks,omitempty"`
}

// NOCRequestsListOptions controls paging and filtering for listing requests.
type NOCRequestsListOptions struct {
	Limit     int
	Offset    int
	StudentID *string    // exact match
	Status    *NOCStatus // exact match
}

// Validate validates CreateNOCRequest.
func (r *CreateNOCRequest) Validate() error {
	if strings.TrimSpace(r.CompanyName) == "" {
		return errors.New("company_name is required")
	}
	if utf8.RuneCountInString(r.CompanyName) > maxCompanyNameLen {
		return errors.New("company_name cannot exceed 255 characters")
	}
	if strings.TrimSpace(r.CompanyAddress) == "" {
		return errors.New("company_address is required")
	}
	if utf8.RuneCountInString(r.CompanyAddress) > maxAddressLen {
		return errors.New("company_address cannot exceed 500 characters")
	}
	if strings.TrimSpace(r.Position) == "" {
		return errors.New("position is required")
	}
	if utf8.RuneCountInString(r.Position) > maxPositionLen {
		return errors.New("position cannot exceed 120 characters")
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return errors.New("start_date and end_date are required")
	}
	if !r.EndDate.After(r.StartDate) {
		return errors.New("end_date must be after start_date")
	}
	if r.StipendPerMonth != nil && *r.StipendPerMonth < 0 {
		return errors.New("stipend_per_month cannot be negative")
	}
	return nil
}

// Validate validates DecideNOCRequest.
// Rejections must carry remarks the student can act on.
func (r *DecideNOCRequest) Validate() error {
	if !r.Approve && strings.TrimSpace(r.Remarks) == "" {
		return errors.New("remarks are required when rejecting a request")
	}
	if utf8.RuneCountInString(r.Remarks) > maxRemarksLen {
		return errors.New("remarks cannot exceed 2000 characters")
	}
	return nil
}
