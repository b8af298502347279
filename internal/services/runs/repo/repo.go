// Package repo provides postgres access for the training run ledger
package repo

import (
	"context"
	"encoding/json"

	"custintel/internal/modkit/repokit"
	"custintel/internal/platform/store"
	"custintel/internal/services/runs/domain"
)

// Repo is the persistence surface for runs
type Repo interface {
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, r domain.Run) error
	Recent(ctx context.Context, kind string, limit int) ([]domain.Run, error)
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// Schema creates the ledger table and its index; safe to run on every start
var Schema = []string{`
create table if not exists training_runs (
	id          uuid not null,
	kind        text not null,
	status      text not null,
	started_at  timestamptz not null,
	finished_at timestamptz not null,
	row_count   integer not null default 0,
	classes     jsonb not null default '{}'::jsonb,
	heuristic   boolean not null default false,
	winner      text not null default '',
	metric      text not null default '',
	score       double precision not null default 0,
	models_dir  text not null default '',
	error       text not null default '',
	primary key (id, kind)
)`,
	`create index if not exists training_runs_kind_started_idx on training_runs (kind, started_at desc)`,
}

func (r *queries) EnsureSchema(ctx context.Context) error {
	return store.ExecAll(ctx, r.q, Schema...)
}

func (r *queries) Insert(ctx context.Context, run domain.Run) error {
	classes, err := json.Marshal(run.Classes)
	if err != nil {
		return err
	}
	if run.Classes == nil {
		classes = []byte("{}")
	}
	const sql = `
insert into training_runs
	(id, kind, status, started_at, finished_at, row_count, classes, heuristic, winner, metric, score, models_dir, error)
values ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9, $10, $11, $12, $13)
on conflict (id, kind) do update set
	status = excluded.status,
	finished_at = excluded.finished_at,
	row_count = excluded.row_count,
	classes = excluded.classes,
	heuristic = excluded.heuristic,
	winner = excluded.winner,
	metric = excluded.metric,
	score = excluded.score,
	models_dir = excluded.models_dir,
	error = excluded.error
`
	return store.ExecOne(ctx, r.q, sql,
		run.ID, run.Kind, run.Status, run.StartedAt, run.FinishedAt, run.Rows, string(classes),
		run.Heuristic, run.Winner, run.Metric, run.Score, run.ModelsDir, run.Error,
	)
}

func (r *queries) Recent(ctx context.Context, kind string, limit int) ([]domain.Run, error) {
	// empty kind lists every model type
	const sql = `
select id::text, kind, status, started_at, finished_at, row_count, classes::text,
	heuristic, winner, metric, score, models_dir, error
from training_runs
where ($1 = '' or kind = $1)
order by started_at desc, kind asc
limit $2
`
	out, err := store.Many(ctx, r.q, scanRun, sql, kind, limit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Run{}
	}
	return out, nil
}

func scanRun(row store.Row) (domain.Run, error) {
	var (
		run     domain.Run
		classes string
	)
	if err := row.Scan(
		&run.ID, &run.Kind, &run.Status, &run.StartedAt, &run.FinishedAt, &run.Rows, &classes,
		&run.Heuristic, &run.Winner, &run.Metric, &run.Score, &run.ModelsDir, &run.Error,
	); err != nil {
		return domain.Run{}, err
	}
	if err := json.Unmarshal([]byte(classes), &run.Classes); err != nil {
		return domain.Run{}, err
	}
	if len(run.Classes) == 0 {
		run.Classes = nil
	}
	return run, nil
}
