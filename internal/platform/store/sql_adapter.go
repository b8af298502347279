package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"custintel/internal/platform/logger"
	"custintel/internal/platform/store/pg"
)

// openPG dials the pool and waits for it to answer; the tracer is attached
// only when something would be logged
func openPG(ctx context.Context, app string, c PGConfig, log logger.Logger) (*pgAdapter, error) {
	var opts []pg.Option
	if c.LogSQL || c.SlowQueryMs > 0 {
		opts = append(opts, pg.WithTracer(pg.Tracer(log, c.LogSQL)))
	}
	p, err := pg.Open(ctx, pg.Config{AppName: app, URL: c.URL, MaxConns: c.MaxConns, SlowMs: c.SlowQueryMs}, opts...)
	if err != nil {
		return nil, err
	}
	// boot pings skip the tracer
	if err := pingUntilUp(ctx, p.Pool.Ping, c.ConnectRetries, c.PingTimeout, log); err != nil {
		p.Close()
		return nil, err
	}
	return newPGAdapter(p), nil
}

// backoff doubles from 150ms and caps at 2s
func backoff(attempt int) time.Duration {
	return min(150*time.Millisecond<<min(attempt, 4), 2*time.Second)
}

func pingUntilUp(ctx context.Context, ping func(context.Context) error, attempts int, timeout time.Duration, log logger.Logger) (err error) {
	for i := range attempts {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		err = ping(pctx)
		cancel()
		if err == nil {
			return nil
		}
		log.Debug().Err(err).Int("attempt", i+1).Msg("postgres not ready")
		t := time.NewTimer(backoff(i))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, err)
}

// pgxQueryer is the statement surface pgxpool.Pool and pgx.Tx share
type pgxQueryer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// traced runs statements on q and reports each one to p's tracer; a nil p
// reports nothing
type traced struct {
	q pgxQueryer
	p *pg.PG
}

func (t traced) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := t.q.Exec(ctx, sql, args...)
	t.p.Observe(ctx, sql, args, start, err)
	return tag{ct}, err
}

// Query reports when the result set opens, not when it is drained
func (t traced) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := t.q.Query(ctx, sql, args...)
	t.p.Observe(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return rows{rs}, nil
}

// QueryRow reports after Scan so a scan error is part of the event
func (t traced) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	r := t.q.QueryRow(ctx, sql, args...)
	return scanThen(func(dst ...any) error {
		err := r.Scan(dst...)
		t.p.Observe(ctx, sql, args, start, err)
		return err
	})
}

// pgAdapter is the TxRunner over a pool
type pgAdapter struct {
	traced
}

func newPGAdapter(p *pg.PG) *pgAdapter { return &pgAdapter{traced{q: p.Pool, p: p}} }

// Ping checks the pool can serve a statement
func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil || a.p == nil || a.p.Pool == nil {
		return errors.New("pg: not open")
	}
	return a.p.Pool.Ping(ctx)
}

func (a *pgAdapter) Close() error {
	a.p.Close()
	return nil
}

// Tx commits when fn returns nil and rolls back on an error or a panic
func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) (err error) {
	tx, err := a.p.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if v := recover(); v != nil {
			_ = tx.Rollback(ctx)
			panic(v)
		}
	}()
	if err := fn(traced{q: tx, p: a.p}); err != nil {
		if rb := tx.Rollback(ctx); rb != nil && !errors.Is(rb, pgx.ErrTxClosed) {
			return errors.Join(err, rb)
		}
		return err
	}
	return tx.Commit(ctx)
}

type scanThen func(dst ...any) error

func (f scanThen) Scan(dst ...any) error { return f(dst...) }

type rows struct{ pgx.Rows }

// Columns lists the result column names in order
func (r rows) Columns() []string {
	fds := r.FieldDescriptions()
	names := make([]string, len(fds))
	for i, fd := range fds {
		names[i] = fd.Name
	}
	return names
}

type tag struct{ pgconn.CommandTag }
