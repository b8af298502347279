package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"custintel/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgxpool"
)

const dsn = "postgres://ledger:pw@db:5432/custintel?sslmode=disable"

func TestOpen_ParseError(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), Config{URL: "://bad"}); err == nil {
		t.Fatalf("expected parse error, got nil")
	}
}

func TestOpen_NewPoolError(t *testing.T) {
	testkit.Serial(t)

	testkit.Swap(t, &newPool, func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
		return nil, errors.New("boom")
	})
	if _, err := Open(context.Background(), Config{URL: dsn}); err == nil {
		t.Fatalf("expected newPool error, got nil")
	}
}

func TestOpen_AppliesConfigAndOptions(t *testing.T) {
	testkit.Serial(t)

	var seen *pgxpool.Config
	fake := &pgxpool.Pool{} // zero value; never closed
	testkit.Swap(t, &newPool, func(_ context.Context, pc *pgxpool.Config) (*pgxpool.Pool, error) {
		seen = pc
		return fake, nil
	})

	tr := &recTracer{}
	cfg := Config{AppName: "custintel-train", URL: dsn, MaxConns: 2, SlowMs: 250}
	p, err := Open(context.Background(), cfg, WithTracer(tr), WithPoolConfig(func(pc *pgxpool.Config) {
		pc.MaxConnIdleTime = 42 * time.Second
	}))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if seen == nil {
		t.Fatalf("newPool not called")
	}
	if seen.MaxConns != 2 {
		t.Fatalf("MaxConns = %d, want 2", seen.MaxConns)
	}
	if got := seen.ConnConfig.RuntimeParams["application_name"]; got != "custintel-train" {
		t.Fatalf("application_name = %q", got)
	}
	if seen.MaxConnIdleTime != 42*time.Second {
		t.Fatalf("pool mutator not applied")
	}
	if p.Tracer != tr || p.SlowMs != 250 || p.Pool != fake {
		t.Fatalf("PG not populated: %+v", p)
	}
}

type recTracer struct{ events []QueryEvent }

func (r *recTracer) OnQuery(_ context.Context, ev QueryEvent) { r.events = append(r.events, ev) }

func TestObserve_MarksSlowQueries(t *testing.T) {
	t.Parallel()

	tr := &recTracer{}
	p := &PG{Tracer: tr, SlowMs: 1}
	args := []any{"lead_quality", 20}

	p.Observe(context.Background(), "select 1", args, time.Now(), nil)
	p.Observe(context.Background(), "select 2", nil, time.Now().Add(-50*time.Millisecond), errors.New("x"))

	if len(tr.events) != 2 {
		t.Fatalf("events = %d, want 2", len(tr.events))
	}
	if tr.events[0].Slow {
		t.Fatalf("fresh query marked slow")
	}
	if !tr.events[1].Slow || tr.events[1].Err == nil || tr.events[1].ElapsedUS < 50_000 {
		t.Fatalf("slow event wrong: %+v", tr.events[1])
	}
}

func TestObserve_ZeroSlowMsNeverSlow(t *testing.T) {
	t.Parallel()

	tr := &recTracer{}
	p := &PG{Tracer: tr}
	p.Observe(context.Background(), "select 1", nil, time.Now().Add(-time.Second), nil)
	if tr.events[0].Slow {
		t.Fatalf("SlowMs 0 must not mark queries slow")
	}
}

func TestObserve_NilSafe(t *testing.T) {
	t.Parallel()

	var p *PG
	p.Observe(context.Background(), "select 1", nil, time.Now(), nil)
	(&PG{}).Observe(context.Background(), "select 1", nil, time.Now(), nil)
}

func TestClose_NilSafe_AndIdempotent(t *testing.T) {
	t.Parallel()

	var p *PG
	p.Close()

	p = &PG{}
	p.Close()
	p.Close()
}
