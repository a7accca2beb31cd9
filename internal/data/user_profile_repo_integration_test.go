package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/campushq/internhub/internal/domain/auth"
	"github.com/campushq/internhub/internal/domain/model"
	"github.com/campushq/internhub/internal/testutil"
)

func newProfileReq(userID, email string, role domainauth.Role) *model.CreateUserProfileRequest {
	return &model.CreateUserProfileRequest{
		UserID:     userID,
		Email:      email,
		Name:       "Test User",
		Role:       role,
		Department: "Computer Science",
	}
}

func TestUserProfileRepoCreateAndGet(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewUserProfileRepo(db)
		ctx := context.Background()

		created, err := repo.Create(ctx, newProfileReq("sub-1", "Ada@Campus.EDU", domainauth.RoleStudent))
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "ada@campus.edu", created.Email, "emails are stored lowercased")
		assert.True(t, created.IsActive, "profiles default to active")

		byID, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.UserID, byID.UserID)

		byUserID, err := repo.GetByUserID(ctx, "sub-1")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byUserID.ID)

		byEmail, err := repo.GetByEmail(ctx, "ADA@campus.edu")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byEmail.ID)
	})
}

func TestUserProfileRepoGetMissing(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewUserProfileRepo(db)
		_, err := repo.GetByUserID(context.Background(), "no-such-subject")
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})
}

func TestUserProfileRepoDuplicates(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewUserProfileRepo(db)
		ctx := context.Background()

		_, err := repo.Create(ctx, newProfileReq("sub-1", "ada@campus.edu", domainauth.RoleStudent))
		require.NoError(t, err)

		_, err = repo.Create(ctx, newProfileReq("sub-1", "other@campus.edu", domainauth.RoleStudent))
		assert.ErrorIs(t, err, ErrProfileUserIDExists)

		_, err = repo.Create(ctx, newProfileReq("sub-2", "ada@campus.edu", domainauth.RoleStudent))
		assert.ErrorIs(t, err, ErrProfileEmailExists)
	})
}

func TestUserProfileRepoUpdate(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewUserProfileRepo(db)
		ctx := context.Background()

		created, err := repo.Create(ctx, newProfileReq("sub-1", "ada@campus.edu", domainauth.RoleStudent))
		require.NoError(t, err)

		newRole := domainauth.RoleTeacher
		inactive := false
		updated, err := repo.Update(ctx, created.ID, model.UpdateUserProfileRequest{
			Role:     &newRole,
			IsActive: &inactive,
		})
		require.NoError(t, err)
		assert.Equal(t, domainauth.RoleTeacher, updated.Role)
		assert.False(t, updated.IsActive)

		// Empty update returns the current row untouched.
		same, err := repo.Update(ctx, created.ID, model.UpdateUserProfileRequest{})
		require.NoError(t, err)
		assert.Equal(t, updated.Role, same.Role)

		_, err = repo.Update(ctx, "00000000-0000-0000-0000-000000000000", model.UpdateUserProfileRequest{Role: &newRole})
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})
}

func TestUserProfileRepoListFilters(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewUserProfileRepo(db)
		ctx := context.Background()

		_, err := repo.Create(ctx, newProfileReq("sub-1", "ada@campus.edu", domainauth.RoleStudent))
		require.NoError(t, err)
		_, err = repo.Create(ctx, newProfileReq("sub-2", "grace@campus.edu", domainauth.RoleTeacher))
		require.NoError(t, err)

		role := domainauth.RoleStudent
		students, err := repo.List(ctx, model.UserProfilesListOptions{Role: &role})
		require.NoError(t, err)
		require.Len(t, students, 1)
		assert.Equal(t, "sub-1", students[0].UserID)

		q := "grace"
		matched, err := repo.List(ctx, model.UserProfilesListOptions{Q: &q})
		require.NoError(t, err)
		require.Len(t, matched, 1)
		assert.Equal(t, "sub-2", matched[0].UserID)

		all, err := repo.List(ctx, model.UserProfilesListOptions{})
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}

func TestUserProfileRepoDelete(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewUserProfileRepo(db)
		ctx := context.Background()

		created, err := repo.Create(ctx, newProfileReq("sub-1", "ada@campus.edu", domainauth.RoleStudent))
		require.NoError(t, err)

		deleted, err := repo.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}
