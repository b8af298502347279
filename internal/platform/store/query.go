package store

import (
	"context"
	"errors"
	"fmt"
)

type (
	// Row is one scannable result row
	Row interface {
		Scan(dest ...any) error
	}

	// Rows is a forward only result set; at its cursor it is also a Row
	Rows interface {
		Row
		Next() bool
		Err() error
		Close()
		Columns() []string
	}

	// CommandTag reports what a write did
	CommandTag interface {
		String() string
		RowsAffected() int64
	}

	// RowQuerier runs statements outside or inside a transaction
	RowQuerier interface {
		Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
		Query(ctx context.Context, sql string, args ...any) (Rows, error)
		QueryRow(ctx context.Context, sql string, args ...any) Row
	}

	// TxRunner is a RowQuerier that can also scope fn to one transaction
	TxRunner interface {
		RowQuerier
		Tx(ctx context.Context, fn func(q RowQuerier) error) error
	}
)

// ErrRowCount is returned when a write touched an unexpected number of rows
var ErrRowCount = errors.New("store: unexpected row count")

// ExecOne runs a write that must affect exactly one row
func ExecOne(ctx context.Context, q RowQuerier, sql string, args ...any) error {
	ct, err := q.Exec(ctx, sql, args...)
	switch {
	case err != nil:
		return err
	case ct.RowsAffected() != 1:
		return fmt.Errorf("%w: %d affected, want 1", ErrRowCount, ct.RowsAffected())
	}
	return nil
}

// ExecAll runs stmts in order, stopping at the first failure
func ExecAll(ctx context.Context, q RowQuerier, stmts ...string) error {
	for n, stmt := range stmts {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("statement %d: %w", n+1, err)
		}
	}
	return nil
}

// Many collects scan over every row; no rows gives a nil slice
func Many[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) (out []T, err error) {
	rs, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	for rs.Next() {
		v, err := scan(rs)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
