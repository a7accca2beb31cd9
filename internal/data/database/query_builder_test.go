package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildListQueryDefaults(t *testing.T) {
	q, args := BuildListQuery(NewListQueryOptions("user_profiles"))
	assert.Equal(t, "SELECT * FROM user_profiles", q)
	assert.Empty(t, args)
}

func TestBuildListQueryFull(t *testing.T) {
	opts := NewListQueryOptions("weekly_reports",
		WithColumns("id", "student_id", "status"),
		WithCondition(WhereCond("student_id", Equal, "s-1")),
		WithCondition(WhereCond("status", NotEqual, "approved")),
		WithOrderBy("created_at", "desc"),
		WithLimit(25),
		WithOffset(50),
	)
	q, args := BuildListQuery(opts)
	assert.Equal(t,
		"SELECT id, student_id, status FROM weekly_reports"+
			" WHERE student_id = $1 AND status != $2"+
			" ORDER BY created_at DESC LIMIT $3 OFFSET $4",
		q)
	assert.Equal(t, []any{"s-1", "approved", 25, 50}, args)
}

func TestBuildListQueryILike(t *testing.T) {
	opts := NewListQueryOptions("user_profiles",
		WithCondition(WhereCond("name", ILike, "%ada%")),
	)
	q, args := BuildListQuery(opts)
	assert.Equal(t, "SELECT * FROM user_profiles WHERE name ILIKE $1", q)
	assert.Equal(t, []any{"%ada%"}, args)
}

func TestBuildListQueryIn(t *testing.T) {
	opts := NewListQueryOptions("noc_requests",
		WithCondition(WhereCond("status", In, []string{"pending", "approved"})),
	)
	q, args := BuildListQuery(opts)
	assert.Equal(t, "SELECT * FROM noc_requests WHERE status IN ($1, $2)", q)
	assert.Equal(t, []any{"pending", "approved"}, args)
}

func TestBuildListQueryEmptyInMatchesNothing(t *testing.T) {
	opts := NewListQueryOptions("noc_requests",
		WithCondition(WhereCond("status", In, []string{})),
	)
	q, args := BuildListQuery(opts)
	assert.Equal(t, "SELECT * FROM noc_requests WHERE FALSE", q)
	assert.Empty(t, args)
}

func TestBuildListQueryRawCondition(t *testing.T) {
	opts := NewListQueryOptions("user_profiles",
		WithCondition(WhereCond("is_active", Equal, true)),
		WithCondition(WhereRawCond("(name ILIKE ? OR email ILIKE ?)", "%ada%", "%ada%")),
	)
	q, args := BuildListQuery(opts)
	assert.Equal(t,
		"SELECT * FROM user_profiles WHERE is_active = $1 AND (name ILIKE $2 OR email ILIKE $3)",
		q)
	assert.Equal(t, []any{true, "%ada%", "%ada%"}, args)
}

func TestBuildListQueryCountOnly(t *testing.T) {
	opts := NewListQueryOptions("weekly_reports",
		WithCountOnly(),
		WithCondition(WhereCond("status", Equal, "submitted")),
		WithOrderBy("created_at", "desc"),
		WithLimit(10),
	)
	q, args := BuildListQuery(opts)
	assert.Equal(t, "SELECT COUNT(*) FROM weekly_reports WHERE status = $1", q)
	assert.Equal(t, []any{"submitted"}, args)
}

func TestWhereCondPanicsOnRaw(t *testing.T) {
	assert.Panics(t, func() { WhereCond("x", Raw, 1) })
}
