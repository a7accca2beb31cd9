package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/campushq/internhub/internal/data"
	domainauth "github.com/campushq/internhub/internal/domain/auth"
	"github.com/campushq/internhub/internal/domain/model"
	"github.com/campushq/internhub/internal/mocks"
	"github.com/campushq/internhub/internal/service"
)

func sampleProfile() *model.UserProfile {
	return &model.UserProfile{
		ID:         "profile-1",
		UserID:     "user-1",
		Email:      "student@campus.edu",
		Name:       "Student One",
		Role:       domainauth.RoleStudent,
		Department: "CSE",
		IsActive:   true,
	}
}

func TestProfileHandlers_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProfileRepo(ctrl)
	handlers := &ProfileHandlers{Svc: service.NewProfileService(repo)}

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sampleProfile(), nil)

	body := `{"user_id":"user-1","email":"student@campus.edu","name":"Student One","role":"student","department":"CSE"}`
	req := httptest.NewRequest(http.MethodPost, "/api/profiles", strings.NewReader(body))
	w := httptest.NewRecorder()

	handlers.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "student@campus.edu")
}

func TestProfileHandlers_Create_DuplicateEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProfileRepo(ctrl)
	handlers := &ProfileHandlers{Svc: service.NewProfileService(repo)}

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, data.ErrProfileEmailExists)

	body := `{"user_id":"user-1","email":"student@campus.edu","name":"Student One","role":"student","department":"CSE"}`
	req := httptest.NewRequest(http.MethodPost, "/api/profiles", strings.NewReader(body))
	w := httptest.NewRecorder()

	handlers.Create(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestProfileHandlers_List_InvalidRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProfileRepo(ctrl)
	handlers := &ProfileHandlers{Svc: service.NewProfileService(repo)}

	req := httptest.NewRequest(http.MethodGet, "/api/profiles?role=wizard", nil)
	w := httptest.NewRecorder()

	handlers.List(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_role")
}

func TestProfileHandlers_List_Filters(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProfileRepo(ctrl)
	handlers := &ProfileHandlers{Svc: service.NewProfileService(repo)}

	repo.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, opts model.UserProfilesListOptions) ([]*model.UserProfile, error) {
			assert.NotNil(t, opts.Role)
			assert.Equal(t, domainauth.RoleStudent, *opts.Role)
			assert.NotNil(t, opts.IsActive)
			assert.True(t, *opts.IsActive)
			return []*model.UserProfile{sampleProfile()}, nil
		})

	req := httptest.NewRequest(http.MethodGet, "/api/profiles?role=student&is_active=true", nil)
	w := httptest.NewRecorder()

	handlers.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProfileHandlers_GetByID_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProfileRepo(ctrl)
	handlers := &ProfileHandlers{Svc: service.NewProfileService(repo)}

	repo.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, data.ErrProfileNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/profiles/missing", nil)
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	handlers.GetByID(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileHandlers_Deactivate(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProfileRepo(ctrl)
	handlers := &ProfileHandlers{Svc: service.NewProfileService(repo)}

	deactivated := sampleProfile()
	deactivated.IsActive = false
	repo.EXPECT().
		Update(gomock.Any(), "profile-1", gomock.Any()).
		DoAndReturn(func(_ any, _ string, req model.UpdateUserProfileRequest) (*model.UserProfile, error) {
			assert.NotNil(t, req.IsActive)
			assert.False(t, *req.IsActive)
			return deactivated, nil
		})

	req := httptest.NewRequest(http.MethodPost, "/api/profiles/profile-1/deactivate", nil)
	req.SetPathValue("id", "profile-1")
	w := httptest.NewRecorder()

	handlers.Deactivate(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_active":false`)
}

func TestProfileHandlers_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProfileRepo(ctrl)
	handlers := &ProfileHandlers{Svc: service.NewProfileService(repo)}

	repo.EXPECT().Delete(gomock.Any(), "profile-1").Return(true, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/profiles/profile-1", nil)
	req.SetPathValue("id", "profile-1")
	w := httptest.NewRecorder()

	handlers.Delete(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deleted":true`)
}
