// Package data implements PostgreSQL repositories over the pgx stdlib bridge.
package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/campushq/internhub/internal/data/database"
	"github.com/campushq/internhub/internal/data/pgxutil"
	"github.com/campushq/internhub/internal/domain/model"
)

var (
	// ErrProfileNotFound is returned when a user profile is not found.
	ErrProfileNotFound = errors.New("user profile not found")
	// ErrProfileUserIDExists is returned on a duplicate external user ID.
	ErrProfileUserIDExists = errors.New("profile for this user already exists")
	// ErrProfileEmailExists is returned on a duplicate email.
	ErrProfileEmailExists = errors.New("profile email already exists")
)

const userProfileColumnsSQL = `id, user_id, email, name, role, department, is_active, created_at, updated_at`

const (
	userProfileGetByIDQuery = `
		SELECT ` + userProfileColumnsSQL + `
		FROM user_profiles
		WHERE id = $1`

	userProfileGetByUserIDQuery = `
		SELECT ` + userProfileColumnsSQL + `
		FROM user_profiles
		WHERE user_id = $1`

	userProfileGetByEmailQuery = `
		SELECT ` + userProfileColumnsSQL + `
		FROM user_profiles
		WHERE email = $1`
)

// UserProfileRepo provides database operations for the user directory.
type UserProfileRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserProfileRepo creates a UserProfileRepo with the real clock.
func NewUserProfileRepo(db *sql.DB) *UserProfileRepo {
	return &UserProfileRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewUserProfileRepoWithTimeProvider creates a UserProfileRepo with a custom clock.
func NewUserProfileRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserProfileRepo {
	return &UserProfileRepo{DB: db, timeProvider: tp}
}

// Create inserts a new profile.
func (r *UserProfileRepo) Create(ctx context.Context, req *model.CreateUserProfileRequest) (*model.UserProfile, error) {
	if req == nil {
		return nil, errors.New("create profile request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := r.timeProvider.Now().UTC()
	var out model.UserProfile
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO user_profiles (user_id, email, name, role, department, is_active, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+userProfileColumnsSQL,
			strings.TrimSpace(req.UserID),
			strings.ToLower(strings.TrimSpace(req.Email)),
			strings.TrimSpace(req.Name),
			req.Role,
			strings.TrimSpace(req.Department),
			isActive,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.UserProfile])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByID retrieves a profile by its primary key.
func (r *UserProfileRepo) GetByID(ctx context.Context, id string) (*model.UserProfile, error) {
	return r.getByQuery(ctx, userProfileGetByIDQuery, "failed to get profile by ID", id)
}

// GetByUserID retrieves a profile by the external identity subject. This is
// the directory lookup every session resolution goes through.
func (r *UserProfileRepo) GetByUserID(ctx context.Context, userID string) (*model.UserProfile, error) {
	return r.getByQuery(ctx, userProfileGetByUserIDQuery, "failed to get profile by user ID", userID)
}

// GetByEmail retrieves a profile by email.
func (r *UserProfileRepo) GetByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	return r.getByQuery(ctx, userProfileGetByEmailQuery, "failed to get profile by email",
		strings.ToLower(strings.TrimSpace(email)))
}

// List retrieves profiles with optional filters.
func (r *UserProfileRepo) List(ctx context.Context, opts model.UserProfilesListOptions) ([]*model.UserProfile, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(userProfileColumns()...),
		database.WithOrderBy("created_at", "desc"),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}
	if opts.Role != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("role", database.Equal, *opts.Role),
		))
	}
	if opts.Department != nil && strings.TrimSpace(*opts.Department) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("department", database.Equal, strings.TrimSpace(*opts.Department)),
		))
	}
	if opts.IsActive != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("is_active", database.Equal, *opts.IsActive),
		))
	}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		pattern := "%" + strings.TrimSpace(*opts.Q) + "%"
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereRawCond("(name ILIKE ? OR email ILIKE ?)", pattern, pattern),
		))
	}

	query, args := database.BuildListQuery(database.NewListQueryOptions("user_profiles", queryOpts...))

	var rowsOut []model.UserProfile
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.UserProfile])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	res := make([]*model.UserProfile, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update applies partial changes to a profile.
func (r *UserProfileRepo) Update(ctx context.Context, id string, req model.UpdateUserProfileRequest) (*model.UserProfile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.UserProfile
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args := r.buildUpdateClause(req)
		query := userProfileGetByIDQuery
		if setClause != "" {
			args = append(args, id)
			query = "UPDATE user_profiles SET " + setClause +
				" WHERE id = $" + strconv.Itoa(len(args)) +
				" RETURNING " + userProfileColumnsSQL
		} else {
			args = []any{id}
		}
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.UserProfile])
		return e
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

// Delete removes a profile by ID. Returns whether a row was deleted.
func (r *UserProfileRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM user_profiles WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete profile: %w", err)
	}
	return rows > 0, nil
}

func (r *UserProfileRepo) buildUpdateClause(req model.UpdateUserProfileRequest) (string, []any) {
	setParts := make([]string, 0, 6)
	args := make([]any, 0, 7)
	nextIdx := func() int { return len(args) + 1 }

	if req.Email != nil {
		setParts = append(setParts, fmt.Sprintf("email = $%d", nextIdx()))
		args = append(args, strings.ToLower(strings.TrimSpace(*req.Email)))
	}
	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if req.Role != nil {
		setParts = append(setParts, fmt.Sprintf("role = $%d", nextIdx()))
		args = append(args, *req.Role)
	}
	if req.Department != nil {
		setParts = append(setParts, fmt.Sprintf("department = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Department))
	}
	if req.IsActive != nil {
		setParts = append(setParts, fmt.Sprintf("is_active = $%d", nextIdx()))
		args = append(args, *req.IsActive)
	}
	if len(setParts) == 0 {
		return "", nil
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())
	return strings.Join(setParts, ", "), args
}

func userProfileColumns() []string {
	return []string{"id", "user_id", "email", "name", "role", "department", "is_active", "created_at", "updated_at"}
}

func (r *UserProfileRepo) getByQuery(ctx context.Context, q, errMsg string, args ...any) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		profile, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.UserProfile])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return &profile, nil
}

func (r *UserProfileRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrProfileNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		if strings.Contains(pgErr.ConstraintName, "email") {
			return ErrProfileEmailExists
		}
		return ErrProfileUserIDExists
	}
	return err
}
