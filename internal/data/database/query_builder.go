// Package database builds parameterized list queries from typed filter
// options, so repositories never concatenate user input into SQL.
package database

import (
	"fmt"
	"strconv"
	"strings"
)

// ConditionType is a SQL comparison operator.
type ConditionType string

const (
	Equal    ConditionType = "="
	NotEqual ConditionType = "!="
	ILike    ConditionType = "ILIKE"
	In       ConditionType = "IN"
	Raw      ConditionType = "RAW"
)

// Condition is one WHERE-clause predicate.
type Condition struct {
	Field string
	Type  ConditionType
	Value any
	raw   string
}

// WhereCond builds a field/operator/value predicate.
func WhereCond(field string, condType ConditionType, value any) Condition {
	if condType == Raw {
		panic("use WhereRawCond for raw SQL predicates")
	}
	return Condition{Field: field, Type: condType, Value: value}
}

// WhereRawCond builds a predicate from raw SQL using ? placeholders, which
// are renumbered into positional parameters at build time.
func WhereRawCond(rawSQL string, params ...any) Condition {
	var value any
	switch len(params) {
	case 0:
	case 1:
		value = params[0]
	default:
		value = params
	}
	return Condition{Type: Raw, raw: rawSQL, Value: value}
}

// ListQueryOptions describes a SELECT over one table.
type ListQueryOptions struct {
	Table      string
	Columns    []string
	CountOnly  bool
	Conditions []Condition
	OrderBy    string
	OrderDir   string
	Limit      int
	Offset     int
}

// ListQueryOption mutates ListQueryOptions.
type ListQueryOption func(*ListQueryOptions)

// NewListQueryOptions constructs options for table with no limit or offset.
func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	options := &ListQueryOptions{Table: table, Limit: -1, Offset: -1}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithColumns sets the columns to select.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) { o.Columns = cols }
}

// WithCondition appends one predicate; predicates are ANDed.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) { o.Conditions = append(o.Conditions, cond) }
}

// WithOrderBy sets the sort column and direction. Callers must pass
// validated identifiers, never raw user input.
func WithOrderBy(column, dir string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.OrderBy = column
		o.OrderDir = dir
	}
}

// WithLimit sets the row limit.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) { o.Limit = limit }
}

// WithOffset sets the row offset.
func WithOffset(offset int) ListQueryOption {
	return func(o *ListQueryOptions) { o.Offset = offset }
}

// WithCountOnly switches the query to SELECT COUNT(*).
func WithCountOnly() ListQueryOption {
	return func(o *ListQueryOptions) { o.CountOnly = true }
}

// BuildListQuery renders the options into a SQL string and its positional
// arguments.
func BuildListQuery(o *ListQueryOptions) (string, []any) {
	var sb strings.Builder
	var args []any

	sb.WriteString("SELECT ")
	switch {
	case o.CountOnly:
		sb.WriteString("COUNT(*)")
	case len(o.Columns) > 0:
		sb.WriteString(strings.Join(o.Columns, ", "))
	default:
		sb.WriteString("*")
	}
	sb.WriteString(" FROM ")
	sb.WriteString(o.Table)

	if len(o.Conditions) > 0 {
		sb.WriteString(" WHERE ")
		parts := make([]string, 0, len(o.Conditions))
		for _, c := range o.Conditions {
			part, condArgs := renderCondition(c, len(args))
			parts = append(parts, part)
			args = append(args, condArgs...)
		}
		sb.WriteString(strings.Join(parts, " AND "))
	}

	if !o.CountOnly {
		if o.OrderBy != "" {
			sb.WriteString(" ORDER BY ")
			sb.WriteString(o.OrderBy)
			if strings.EqualFold(o.OrderDir, "desc") {
				sb.WriteString(" DESC")
			} else if o.OrderDir != "" {
				sb.WriteString(" ASC")
			}
		}
		if o.Limit >= 0 {
			args = append(args, o.Limit)
			sb.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
		}
		if o.Offset >= 0 {
			args = append(args, o.Offset)
			sb.WriteString(" OFFSET $" + strconv.Itoa(len(args)))
		}
	}

	return sb.String(), args
}

// renderCondition renders one predicate, numbering placeholders from base.
func renderCondition(c Condition, base int) (string, []any) {
	switch c.Type {
	case Raw:
		return renderRawCondition(c, base)
	case In:
		vals := toAnySlice(c.Value)
		if len(vals) == 0 {
			// Empty IN lists match nothing rather than erroring.
			return "FALSE", nil
		}
		ph := make([]string, len(vals))
		for i := range vals {
			ph[i] = "$" + strconv.Itoa(base+i+1)
		}
		return fmt.Sprintf("%s IN (%s)", c.Field, strings.Join(ph, ", ")), vals
	default:
		return fmt.Sprintf("%s %s $%d", c.Field, c.Type, base+1), []any{c.Value}
	}
}

func renderRawCondition(c Condition, base int) (string, []any) {
	args := toAnySlice(c.Value)
	var sb strings.Builder
	n := 0
	for _, r := range c.raw {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(base+n))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String(), args
}

func toAnySlice(v any) []any {
	switch vals := v.(type) {
	case nil:
		return nil
	case []any:
		return vals
	case []string:
		out := make([]any, len(vals))
		for i, s := range vals {
			out[i] = s
		}
		return out
	default:
		return []any{v}
	}
}
