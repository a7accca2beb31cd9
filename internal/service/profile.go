package service

import (
	"context"
	"errors"

	"github.com/campushq/internhub/internal/data"
	"github.com/campushq/internhub/internal/domain/model"
	apperrors "github.com/campushq/internhub/internal/errors"
)

// ProfileRepo is the slice of the profile repository ProfileService needs.
type ProfileRepo interface {
	Create(ctx context.Context, req *model.CreateUserProfileRequest) (*model.UserProfile, error)
	GetByID(ctx context.Context, id string) (*model.UserProfile, error)
	GetByUserID(ctx context.Context, userID string) (*model.UserProfile, error)
	List(ctx context.Context, opts model.UserProfilesListOptions) ([]*model.UserProfile, error)
	Update(ctx context.Context, id string, req model.UpdateUserProfileRequest) (*model.UserProfile, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ProfileService manages the user directory. It doubles as the
// ports.UserDirectory used during session resolution.
type ProfileService struct {
	repo ProfileRepo
}

// NewProfileService constructs a new ProfileService.
func NewProfileService(repo ProfileRepo) *ProfileService {
	return &ProfileService{repo: repo}
}

// Create registers a new directory profile.
func (s *ProfileService) Create(ctx context.Context, req *model.CreateUserProfileRequest) (*model.UserProfile, error) {
	profile, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, mapProfileErr(err)
	}
	return profile, nil
}

// Get retrieves a profile by its primary key.
func (s *ProfileService) Get(ctx context.Context, id string) (*model.UserProfile, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapProfileErr(err)
	}
	return profile, nil
}

// FindByUserID implements ports.UserDirectory: it resolves the profile for
// an external identity subject.
func (s *ProfileService) FindByUserID(ctx context.Context, userID string) (*model.UserProfile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// List retrieves profiles with filters and paging.
func (s *ProfileService) List(ctx context.Context, opts model.UserProfilesListOptions) ([]*model.UserProfile, error) {
	return s.repo.List(ctx, opts)
}

// Update applies partial changes. Role and active-flag changes take effect
// on the user's next session resolution, not retroactively on open requests.
func (s *ProfileService) Update(ctx context.Context, id string, req model.UpdateUserProfileRequest) (*model.UserProfile, error) {
	profile, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, mapProfileErr(err)
	}
	return profile, nil
}

// Deactivate flips a profile to inactive. The user's session stays alive but
// every guarded surface turns them away on the next evaluation.
func (s *ProfileService) Deactivate(ctx context.Context, id string) (*model.UserProfile, error) {
	inactive := false
	return s.Update(ctx, id, model.UpdateUserProfileRequest{IsActive: &inactive})
}

// Delete removes a profile.
func (s *ProfileService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperrors.Internal("delete profile", err)
	}
	if !deleted {
		return apperrors.NotFound("user profile not found")
	}
	return nil
}

func mapProfileErr(err error) error {
	switch {
	case errors.Is(err, data.ErrProfileNotFound):
		return apperrors.NotFound("user profile not found")
	case errors.Is(err, data.ErrProfileUserIDExists):
		return apperrors.Conflict("profile for this user already exists")
	case errors.Is(err, data.ErrProfileEmailExists):
		return apperrors.Conflict("profile email already exists")
	default:
		return err
	}
}
