package store

import (
	"context"

	perr "bluebird/internal/platform/errors"
)

// Scalar scans a single value, typically count(*)
func Scalar[T any](ctx context.Context, q RowQuerier, sql string, args ...any) (v T, err error) {
	err = q.QueryRow(ctx, sql, args...).Scan(&v)
	return v, err
}

// Many scans every row of sql with scan
func Many[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) ([]T, error) {
	return collect(ctx, q, scan, -1, sql, args...)
}

// One scans exactly one row. Zero rows is perr.ErrNotFound, more than one
// is a DB error
func One[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) (T, error) {
	var zero T
	got, err := collect(ctx, q, scan, 2, sql, args...)
	switch {
	case err != nil:
		return zero, err
	case len(got) == 0:
		return zero, perr.ErrNotFound
	case len(got) > 1:
		return zero, perr.DBf("expected one row, got more")
	}
	return got[0], nil
}

// collect stops after limit rows; a negative limit reads everything
func collect[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), limit int, sql string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for (limit < 0 || len(out) < limit) && rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
