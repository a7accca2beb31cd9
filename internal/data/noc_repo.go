package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/campushq/internhub/internal/data/database"
	"github.com/campushq/internhub/internal/data/pgxutil"
	"github.com/campushq/internhub/internal/domain/model"
)

var (
	// ErrNOCNotFound is returned when a NOC request is not found.
	ErrNOCNotFound = errors.New("noc request not found")
	// ErrNOCAlreadyDecided is returned when deciding a request that has
	// already been approved or rejected.
	ErrNOCAlreadyDecided = errors.New("noc request already decided")
	// ErrCertificateNumberTaken is returned when a decision carries a
	// certificate number that has already been issued.
	ErrCertificateNumberTaken = errors.New("certificate number already issued")
)

const nocColumnsSQL = `id, student_id, company_name, company_address, position, start_date, end_date,
		stipend_per_month, status, officer_remarks, decided_by, decided_at, certificate_number, created_at, updated_at`

const nocGetByIDQuery = `
		SELECT ` + nocColumnsSQL + `
		FROM noc_requests
		WHERE id = $1`

// NOCRepo provides database operations for No-Objection-Certificate requests.
type NOCRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewNOCRepo creates a NOCRepo with the real clock.
func NewNOCRepo(db *sql.DB) *NOCRepo {
	return &NOCRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewNOCRepoWithTimeProvider creates a NOCRepo with a custom clock.
func NewNOCRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *NOCRepo {
	return &NOCRepo{DB: db, timeProvider: tp}
}

// Create submits a new request for studentID. Requests always start pending.
func (r *NOCRepo) Create(ctx context.Context, studentID string, req *model.CreateNOCRequest) (*model.NOCRequest, error) {
	if req == nil {
		return nil, errors.New("create noc request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now().UTC()
	var out model.NOCRequest
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO noc_requests (student_id, company_name, company_address, position,
				start_date, end_date, stipend_per_month, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING `+nocColumnsSQL,
			studentID,
			strings.TrimSpace(req.CompanyName),
			strings.TrimSpace(req.CompanyAddress),
			strings.TrimSpace(req.Position),
			req.StartDate.UTC(),
			req.EndDate.UTC(),
			req.StipendPerMonth,
			model.NOCStatusPending,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.NOCRequest])
		return err
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByID retrieves a request by ID.
func (r *NOCRepo) GetByID(ctx context.Context, id string) (*model.NOCRequest, error) {
	var req model.NOCRequest
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, nocGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		req, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.NOCRequest])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNOCNotFound
		}
		return nil, fmt.Errorf("failed to get noc request by ID: %w", err)
	}
	return &req, nil
}

// List retrieves requests with optional filters, newest first.
func (r *NOCRepo) List(ctx context.Context, opts model.NOCRequestsListOptions) ([]*model.NOCRequest, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(nocColumns()...),
		database.WithOrderBy("created_at", "desc"),
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

	query, args := database.BuildListQuery(database.NewListQueryOptions("noc_requests", queryOpts...))

	var rowsOut []model.NOCRequest
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.NOCRequest])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list noc requests: %w", err)
	}

	res := make([]*model.NOCRequest, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Decide records the officer's verdict. The WHERE clause pins status to
// pending so two concurrent decisions cannot both land; the loser sees
// ErrNOCAlreadyDecided (or ErrNOCNotFound when the ID never existed).
func (r *NOCRepo) Decide(ctx context.Context, id string, verdict DecideParams) (*model.NOCRequest, error) {
	status := model.NOCStatusRejected
	if verdict.Approve {
		status = model.NOCStatusApproved
	}

	now := r.timeProvider.Now().UTC()
	var out model.NOCRequest
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE noc_requests
			SET status = $1, officer_remarks = NULLIF($2, ''), decided_by = $3, decided_at = $4,
			    certificate_number = NULLIF($5, ''), updated_at = $4
			WHERE id = $6 AND status = $7
			RETURNING `+nocColumnsSQL,
			status, strings.TrimSpace(verdict.Remarks), verdict.OfficerID, now, verdict.CertificateNumber,
			id, model.NOCStatusPending,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.NOCRequest])
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); getErr == nil {
				return nil, ErrNOCAlreadyDecided
			}
			return nil, ErrNOCNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			// Allocation makes duplicates impossible in normal operation;
			// this catches a caller passing a stale or hand-built number.
			return nil, ErrCertificateNumberTaken
		}
		return nil, fmt.Errorf("failed to decide noc request: %w", err)
	}
	return &out, nil
}

// DecideParams groups the inputs Decide writes to keep parameter count low.
type DecideParams struct {
	Approve           bool
	Remarks           string
	OfficerID         string
	CertificateNumber string // set on approval, empty otherwise
}

// Delete removes a request by ID. Returns whether a row was deleted.
func (r *NOCRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM noc_requests WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete noc request: %w", err)
	}
	return rows > 0, nil
}

// NextCertificateSeq allocates the next certificate sequence for year. The
// upsert takes a row lock on the year's counter, so concurrent approvals get
// distinct values; the counter only grows, so a number is never re-issued
// after its request is deleted. A sequence burned by a losing decision stays
// a gap, which is fine for certificate numbering.
func (r *NOCRepo) NextCertificateSeq(ctx context.Context, year int) (int, error) {
	var seq int
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `
			INSERT INTO noc_certificate_counters (year, last_seq)
			VALUES ($1, 1)
			ON CONFLICT (year)
			DO UPDATE SET last_seq = noc_certificate_counters.last_seq + 1
			RETURNING last_seq`,
			year,
		).Scan(&seq)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to allocate certificate sequence: %w", err)
	}
	return seq, nil
}

func nocColumns() []string {
	return []string{
		"id", "student_id", "company_name", "company_address", "position", "start_date",
		"end_date", "stipend_per_month", "status", "officer_remarks", "decided_by",
		"decided_at", "certificate_number", "created_at", "updated_at",
	}
}
