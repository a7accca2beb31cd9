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
	// ErrReportNotFound is returned when a weekly report is not found.
	ErrReportNotFound = errors.New("weekly report not found")
	// ErrReportWeekExists is returned when the student already filed a
	// report for that week number.
	ErrReportWeekExists = errors.New("report for this week already exists")
)

const weeklyReportColumnsSQL = `id, student_id, week_number, period_start, period_end, summary,
		tasks_completed, learnings, status, teacher_feedback, reviewed_by, reviewed_at, created_at, updated_at`

const weeklyReportGetByIDQuery = `
		SELECT ` + weeklyReportColumnsSQL + `
		FROM weekly_reports
		WHERE id = $1`

// WeeklyReportRepo provides database operations for weekly reports.
type WeeklyReportRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewWeeklyReportRepo creates a WeeklyReportRepo with the real clock.
func NewWeeklyReportRepo(db *sql.DB) *WeeklyReportRepo {
	return &WeeklyReportRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewWeeklyReportRepoWithTimeProvider creates a WeeklyReportRepo with a custom clock.
func NewWeeklyReportRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *WeeklyReportRepo {
	return &WeeklyReportRepo{DB: db, timeProvider: tp}
}

// Create files a new report for studentID. New reports always enter the
// workflow as submitted.
func (r *WeeklyReportRepo) Create(ctx context.Context, studentID string, req *model.CreateWeeklyReportRequest) (*model.WeeklyReport, error) {
	if req == nil {
		return nil, errors.New("create report request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now().UTC()
	var out model.WeeklyReport
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO weekly_reports (student_id, week_number, period_start, period_end,
				summary, tasks_completed, learnings, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING `+weeklyReportColumnsSQL,
			studentID,
			req.WeekNumber,
			req.PeriodStart.UTC(),
			req.PeriodEnd.UTC(),
			strings.TrimSpace(req.Summary),
			strings.TrimSpace(req.TasksCompleted),
			strings.TrimSpace(req.Learnings),
			model.ReportStatusSubmitted,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.WeeklyReport])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByID retrieves a report by ID.
func (r *WeeklyReportRepo) GetByID(ctx context.Context, id string) (*model.WeeklyReport, error) {
	var report model.WeeklyReport
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, weeklyReportGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		report, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.WeeklyReport])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report by ID: %w", err)
	}
	return &report, nil
}

// List retrieves reports with optional filters, newest week first.
func (r *WeeklyReportRepo) List(ctx context.Context, opts model.WeeklyReportsListOptions) ([]*model.WeeklyReport, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(weeklyReportColumns()...),
		database.WithOrderBy("week_number", "desc"),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}
	if opts.StudentID != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("student_id", database.Equal, *opts.StudentID),
		))
	}
	if opts.Status != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("status", database.Equal, *opts.Status),
		))
	}
	if opts.WeekNumber != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("week_number", database.Equal, *opts.WeekNumber),
		))
	}

	query, args := database.BuildListQuery(database.NewListQueryOptions("weekly_reports", queryOpts...))

	var rowsOut []model.WeeklyReport
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.WeeklyReport])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	res := make([]*model.WeeklyReport, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update amends report content. Amending clears any prior review and puts
// the report back into submitted.
func (r *WeeklyReportRepo) Update(ctx context.Context, id string, req model.UpdateWeeklyReportRequest) (*model.WeeklyReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.WeeklyReport
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args := r.buildUpdateClause(req)
		query := weeklyReportGetByIDQuery
		if setClause != "" {
			args = append(args, id)
			query = "UPDATE weekly_reports SET " + setClause +
				" WHERE id = $" + strconv.Itoa(len(args)) +
				" RETURNING " + weeklyReportColumnsSQL
		} else {
			args = []any{id}
		}
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.WeeklyReport])
		return e
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

// SetReview records a teacher's decision: the resulting status, feedback,
// and who reviewed when.
func (r *WeeklyReportRepo) SetReview(ctx context.Context, id string, status model.ReportStatus, feedback, reviewerID string) (*model.WeeklyReport, error) {
	if !status.Valid() {
		return nil, errors.New("invalid report status")
	}

	now := r.timeProvider.Now().UTC()
	var out model.WeeklyReport
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE weekly_reports
			SET status = $1, teacher_feedback = NULLIF($2, ''), reviewed_by = $3, reviewed_at = $4, updated_at = $4
			WHERE id = $5
			RETURNING `+weeklyReportColumnsSQL,
			status, strings.TrimSpace(feedback), reviewerID, now, id,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.WeeklyReport])
		return e
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

// Delete removes a report by ID. Returns whether a row was deleted.
func (r *WeeklyReportRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM weekly_reports WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete report: %w", err)
	}
	return rows > 0, nil
}

func (r *WeeklyReportRepo) buildUpdateClause(req model.UpdateWeeklyReportRequest) (string, []any) {
	setParts := make([]string, 0, 7)
	args := make([]any, 0, 5)
	nextIdx := func() int { return len(args) + 1 }

	if req.Summary != nil {
		setParts = append(setParts, fmt.Sprintf("summary = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Summary))
	}
	if req.TasksCompleted != nil {
		setParts = append(setParts, fmt.Sprintf("tasks_completed = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.TasksCompleted))
	}
	if req.Learnings != nil {
		setParts = append(setParts, fmt.Sprintf("learnings = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Learnings))
	}
	if len(setParts) == 0 {
		return "", nil
	}
	// Content changes resubmit the report and void the previous review.
	setParts = append(setParts,
		fmt.Sprintf("status = '%s'", model.ReportStatusSubmitted),
		"teacher_feedback = NULL",
		"reviewed_by = NULL",
		"reviewed_at = NULL",
		fmt.Sprintf("updated_at = $%d", nextIdx()),
	)
	args = append(args, r.timeProvider.Now().UTC())
	return strings.Join(setParts, ", "), args
}

func weeklyReportColumns() []string {
	return []string{
		"id", "student_id", "week_number", "period_start", "period_end", "summary",
		"tasks_completed", "learnings", "status", "teacher_feedback", "reviewed_by",
		"reviewed_at", "created_at", "updated_at",
	}
}

func (r *WeeklyReportRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrReportNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrReportWeekExists
	}
	return err
}
