package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/campushq/internhub/internal/data"
	domainauth "github.com/campushq/internhub/internal/domain/auth"
	"github.com/campushq/internhub/internal/domain/model"
	apperrors "github.com/campushq/internhub/internal/errors"
	"github.com/campushq/internhub/internal/mocks"
)

func TestProfileServiceCreateMapsConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProfileRepo(ctrl)
	svc := NewProfileService(repo)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, data.ErrProfileUserIDExists)
	_, err := svc.Create(context.Background(), &model.CreateUserProfileRequest{})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConflict))

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, data.ErrProfileEmailExists)
	_, err = svc.Create(context.Background(), &model.CreateUserProfileRequest{})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConflict))
}

func TestProfileServiceGetMapsNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProfileRepo(ctrl)
	svc := NewProfileService(repo)

	repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(nil, data.ErrProfileNotFound)
	_, err := svc.Get(context.Background(), "p-1")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
}

func TestProfileServiceFindByUserIDKeepsRepoSentinel(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProfileRepo(ctrl)
	svc := NewProfileService(repo)

	// The directory port contract promises data.ErrProfileNotFound, which the
	// auth service translates into an orphan-session condition.
	repo.EXPECT().GetByUserID(gomock.Any(), "sub-1").Return(nil, data.ErrProfileNotFound)
	_, err := svc.FindByUserID(context.Background(), "sub-1")
	assert.ErrorIs(t, err, data.ErrProfileNotFound)
}

func TestProfileServiceDeactivate(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProfileRepo(ctrl)
	svc := NewProfileService(repo)

	inactive := false
	repo.EXPECT().Update(gomock.Any(), "p-1", model.UpdateUserProfileRequest{IsActive: &inactive}).
		Return(&model.UserProfile{ID: "p-1", Role: domainauth.RoleStudent, IsActive: false}, nil)

	profile, err := svc.Deactivate(context.Background(), "p-1")
	require.NoError(t, err)
	assert.False(t, profile.IsActive)
}

func TestProfileServiceDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProfileRepo(ctrl)
	svc := NewProfileService(repo)

	repo.EXPECT().Delete(gomock.Any(), "p-1").Return(true, nil)
	assert.NoError(t, svc.Delete(context.Background(), "p-1"))

	repo.EXPECT().Delete(gomock.Any(), "p-2").Return(false, nil)
	err := svc.Delete(context.Background(), "p-2")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
}
