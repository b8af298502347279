//go:build integration_pg

package store

import (
	"context"
	"errors"
	"io"
	"slices"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"custintel/internal/platform/testkit"
)

// openLedger opens a Store against a fresh container and creates runs_it
func openLedger(t *testing.T, logSQL bool) (context.Context, *pgAdapter) {
	t.Helper()
	url := testkit.Postgres(t)

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	t.Cleanup(cancel)

	st, err := Open(ctx, Config{
		AppName: "custintel-store-it",
		PG:      PGConfig{Enabled: true, URL: url, MaxConns: 2, LogSQL: logSQL, SlowQueryMs: 200},
	}, WithLogger(zerolog.New(io.Discard)))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	a, ok := st.PG.(*pgAdapter)
	if !ok {
		t.Fatalf("ledger is %T", st.PG)
	}
	if err := st.Guard(ctx); err != nil {
		t.Fatalf("guard: %v", err)
	}

	_, err = a.Exec(ctx, `
		create table runs_it (
			id     text primary key,
			kind   text not null,
			status text not null
		)`)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	return ctx, a
}

func TestSQLAdapter_Integration_Statements(t *testing.T) {
	ctx, a := openLedger(t, true)

	ct, err := a.Exec(ctx, `insert into runs_it (id, kind, status) values ($1, $2, 'succeeded'), ($3, $4, 'skipped')`,
		"run-1", "lead_quality", "run-1b", "churn")
	if err != nil {
		t.Fatal(err)
	}
	if n := ct.RowsAffected(); n != 2 {
		t.Fatalf("want 2 rows got %d", n)
	}

	var status string
	if err := a.QueryRow(ctx, `select status from runs_it where kind = $1`, "churn").Scan(&status); err != nil {
		t.Fatal(err)
	}
	if status != "skipped" {
		t.Fatalf("want skipped got %q", status)
	}

	rs, err := a.Query(ctx, `select id, kind from runs_it order by id`)
	if err != nil {
		t.Fatal(err)
	}
	defer rs.Close()
	if cols := rs.Columns(); !slices.Equal(cols, []string{"id", "kind"}) {
		t.Fatalf("columns %v", cols)
	}

	var kinds []string
	for rs.Next() {
		var id, kind string
		if err := rs.Scan(&id, &kind); err != nil {
			t.Fatal(err)
		}
		kinds = append(kinds, kind)
	}
	if err := rs.Err(); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(kinds, []string{"lead_quality", "churn"}) {
		t.Fatalf("kinds %v", kinds)
	}
}

func TestSQLAdapter_Integration_Tx(t *testing.T) {
	ctx, a := openLedger(t, false)

	insert := func(id string) func(q RowQuerier) error {
		return func(q RowQuerier) error {
			return ExecOne(ctx, q, `insert into runs_it (id, kind, status) values ($1, 'churn', 'succeeded')`, id)
		}
	}
	count := func(id string) (n int) {
		if err := a.QueryRow(ctx, `select count(*) from runs_it where id = $1`, id).Scan(&n); err != nil {
			t.Fatal(err)
		}
		return n
	}

	if err := a.Tx(ctx, insert("committed")); err != nil {
		t.Fatal(err)
	}
	if n := count("committed"); n != 1 {
		t.Fatalf("committed rows %d", n)
	}

	errRollback := errors.New("rollback")
	err := a.Tx(ctx, func(q RowQuerier) error {
		if err := insert("rolled-back")(q); err != nil {
			t.Fatal(err)
		}
		return errRollback
	})
	if !errors.Is(err, errRollback) {
		t.Fatalf("want rollback error got %v", err)
	}
	if n := count("rolled-back"); n != 0 {
		t.Fatalf("rolled back rows %d", n)
	}

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("want panic re-raised from Tx")
			}
		}()
		_ = a.Tx(ctx, func(q RowQuerier) error {
			_ = insert("panicked")(q)
			panic("boom")
		})
	}()
	if n := count("panicked"); n != 0 {
		t.Fatalf("panicked rows %d", n)
	}
}
