// Package pg opens the pgx pool behind the training run ledger and traces its queries
package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the pool
type Config struct {
	// AppName shows up as application_name in pg_stat_activity
	AppName  string
	URL      string
	MaxConns int32
	// SlowMs marks queries at or above this many milliseconds as slow; 0 marks none
	SlowMs int
}

// PG is a pool plus the tracer its queries report to
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

type options struct {
	tracer QueryTracer
	pool   func(*pgxpool.Config)
}

// Option tunes Open
type Option func(*options)

// WithTracer reports every query to t
func WithTracer(t QueryTracer) Option { return func(o *options) { o.tracer = t } }

// WithPoolConfig mutates the parsed pool config before the pool is built
func WithPoolConfig(fn func(*pgxpool.Config)) Option { return func(o *options) { o.pool = fn } }

var newPool = pgxpool.NewWithConfig

// Open parses cfg.URL and builds the pool; it does not ping
func Open(ctx context.Context, cfg Config, opts ...Option) (*PG, error) {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		pcfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	if o.pool != nil {
		o.pool(pcfg)
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	return &PG{Pool: pool, Tracer: o.tracer, SlowMs: cfg.SlowMs}, nil
}

// Observe reports one finished query to the tracer; nil p or tracer is a no op
func (p *PG) Observe(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if p == nil || p.Tracer == nil {
		return
	}
	elapsed := time.Since(start)
	p.Tracer.OnQuery(ctx, QueryEvent{
		SQL:       sql,
		Args:      args,
		ElapsedUS: elapsed.Microseconds(),
		Err:       err,
		Slow:      p.SlowMs > 0 && elapsed >= time.Duration(p.SlowMs)*time.Millisecond,
	})
}

// Close closes the pool
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
