package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/campushq/internhub/internal/data"
	"github.com/campushq/internhub/internal/domain/model"
	apperrors "github.com/campushq/internhub/internal/errors"
)

// NOCRepo is the slice of the NOC repository NOCService needs.
type NOCRepo interface {
	Create(ctx context.Context, studentID string, req *model.CreateNOCRequest) (*model.NOCRequest, error)
	GetByID(ctx context.Context, id string) (*model.NOCRequest, error)
	List(ctx context.Context, opts model.NOCRequestsListOptions) ([]*model.NOCRequest, error)
	Decide(ctx context.Context, id string, verdict data.DecideParams) (*model.NOCRequest, error)
	Delete(ctx context.Context, id string) (bool, error)
	NextCertificateSeq(ctx context.Context, year int) (int, error)
}

// NOCService manages No-Objection-Certificate requests and the placement
// officer's decision workflow.
type NOCService struct {
	repo         NOCRepo
	timeProvider data.TimeProvider
}

// NewNOCService constructs a new NOCService.
func NewNOCService(repo NOCRepo) *NOCService {
	return &NOCService{repo: repo, timeProvider: data.RealTimeProvider{}}
}

// NewNOCServiceWithTimeProvider constructs a NOCService with a custom clock.
func NewNOCServiceWithTimeProvider(repo NOCRepo, tp data.TimeProvider) *NOCService {
	return &NOCService{repo: repo, timeProvider: tp}
}

// Submit files a new request for studentID.
func (s *NOCService) Submit(ctx context.Context, studentID string, req *model.CreateNOCRequest) (*model.NOCRequest, error) {
	return s.repo.Create(ctx, studentID, req)
}

// Get retrieves a request by ID.
func (s *NOCService) Get(ctx context.Context, id string) (*model.NOCRequest, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNOCErr(err)
	}
	return req, nil
}

// GetOwned retrieves a request and verifies it belongs to studentID.
func (s *NOCService) GetOwned(ctx context.Context, id, studentID string) (*model.NOCRequest, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.StudentID != studentID {
		return nil, apperrors.NotFound("noc request not found")
	}
	return req, nil
}

// List retrieves requests with filters and paging.
func (s *NOCService) List(ctx context.Context, opts model.NOCRequestsListOptions) ([]*model.NOCRequest, error) {
	return s.repo.List(ctx, opts)
}

// Decide records the officer's verdict on a pending request. Approvals are
// assigned a sequential certificate number for the decision year.
func (s *NOCService) Decide(ctx context.Context, id, officerID string, req model.DecideNOCRequest) (*model.NOCRequest, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	verdict := data.DecideParams{
		Approve:   req.Approve,
		Remarks:   req.Remarks,
		OfficerID: officerID,
	}
	if req.Approve {
		number, err := s.nextCertificateNumber(ctx)
		if err != nil {
			return nil, err
		}
		verdict.CertificateNumber = number
	}

	decided, err := s.repo.Decide(ctx, id, verdict)
	if err != nil {
		return nil, mapNOCErr(err)
	}
	return decided, nil
}

// Withdraw deletes a request on behalf of its owner. Only pending requests
// can be withdrawn.
func (s *NOCService) Withdraw(ctx context.Context, id, studentID string) error {
	req, err := s.GetOwned(ctx, id, studentID)
	if err != nil {
		return err
	}
	if req.Status != model.NOCStatusPending {
		return apperrors.Forbidden("decided requests cannot be withdrawn")
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperrors.Internal("delete noc request", err)
	}
	if !deleted {
		return apperrors.NotFound("noc request not found")
	}
	return nil
}

// nextCertificateNumber formats the atomically allocated per-year sequence.
// The allocation serializes concurrent approvals, so two officers deciding
// at once can never be issued the same number.
func (s *NOCService) nextCertificateNumber(ctx context.Context) (string, error) {
	year := s.timeProvider.Now().UTC().Year()
	seq, err := s.repo.NextCertificateSeq(ctx, year)
	if err != nil {
		return "", apperrors.Internal("allocate certificate number", err)
	}
	return fmt.Sprintf("NOC/%d/%04d", year, seq), nil
}

func mapNOCErr(err error) error {
	switch {
	case errors.Is(err, data.ErrNOCNotFound):
		return apperrors.NotFound("noc request not found")
	case errors.Is(err, data.ErrNOCAlreadyDecided):
		return apperrors.Conflict("noc request has already been decided")
	case errors.Is(err, data.ErrCertificateNumberTaken):
		return apperrors.Conflict("certificate number has already been issued")
	default:
		return err
	}
}
