package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// timeLayout is the on-disk timestamp format (UTC, second precision).
const timeLayout = "2006-01-02T15:04:05Z"

// builder returns an SQL statement builder for the SQLite dialect.
func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// formatTime encodes t for a NOT NULL column. Sub-second precision is
// dropped.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// nullTime encodes t for a nullable column; the zero time becomes NULL.
func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(t), Valid: true}
}

// nullString encodes s for a nullable column; "" becomes NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// parseTime decodes a stored timestamp. NULL and "" decode to the zero time.
func parseTime(ns sql.NullString) (time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, ns.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", ns.String, err)
	}
	return t.UTC(), nil
}

// timeParser accumulates the first decode error across several columns.
type timeParser struct {
	err error
}

func (p *timeParser) parse(ns sql.NullString) time.Time {
	t, err := parseTime(ns)
	if err != nil && p.err == nil {
		p.err = err
	}
	return t
}

func (p *timeParser) text(s string) time.Time {
	return p.parse(sql.NullString{String: s, Valid: true})
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// queryAll runs sel and decodes every row with scan.
func queryAll[T any](ctx context.Context, q querier, sel *entsql.Selector, scan func(rowScanner) (T, error)) ([]T, error) {
	query, args := sel.Query()
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// queryOne runs sel and decodes the first row, or returns nil when there
// is none.
func queryOne[T any](ctx context.Context, q querier, sel *entsql.Selector, scan func(rowScanner) (T, error)) (*T, error) {
	all, err := queryAll(ctx, q, sel.Limit(1), scan)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return &all[0], nil
}

// execInsert runs an insert statement.
func execInsert(ctx context.Context, q querier, ins *entsql.InsertBuilder) error {
	query, args := ins.Query()
	_, err := q.ExecContext(ctx, query, args...)
	return err
}
