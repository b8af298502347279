// Package service records and lists training runs
package service

import (
	"context"

	"github.com/google/uuid"

	"custintel/internal/modkit/repokit"
	perr "custintel/internal/platform/errors"
	"custintel/internal/platform/logger"
	"custintel/internal/services/runs/domain"
	"custintel/internal/services/runs/repo"
)

// Config for the runs service
type Config struct {
	// HardLimit caps Recent
	HardLimit int
	// DefaultLimit applies when the caller asks for none
	DefaultLimit int
}

// Service implements domain.RecorderPort and domain.QueryPort against postgres
type Service struct {
	Repo   repo.Repo
	db     repokit.TxRunner
	binder repokit.Binder[repo.Repo]
	cfg    Config
}

// New constructs a runs service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], cfg Config) *Service {
	if db == nil {
		panic("runs.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("runs.Service requires a non nil Repo binder")
	}
	if cfg.HardLimit <= 0 {
		cfg.HardLimit = 100
	}
	if cfg.DefaultLimit <= 0 || cfg.DefaultLimit > cfg.HardLimit {
		cfg.DefaultLimit = min(20, cfg.HardLimit)
	}
	return &Service{Repo: repokit.MustBind(binder, db), db: db, binder: binder, cfg: cfg}
}

// tx runs fn with a repo bound to one transaction of s.db
func (s *Service) tx(ctx context.Context, fn func(r repo.Repo) error) error {
	return repokit.InTx(ctx, s.db, s.binder, fn)
}

// EnsureSchema creates the ledger table if needed
func (s *Service) EnsureSchema(ctx context.Context) error {
	err := s.tx(ctx, func(r repo.Repo) error { return r.EnsureSchema(ctx) })
	if err != nil {
		return perr.FromPostgres(err, "create training_runs")
	}
	return nil
}

// Record implements domain.RecorderPort
func (s *Service) Record(ctx context.Context, r domain.Run) error {
	if _, err := uuid.Parse(r.ID); err != nil {
		return perr.WithField(perr.InvalidArgf("run id %q is not a uuid", r.ID), "id")
	}
	if r.Kind == "" {
		return perr.WithField(perr.InvalidArgf("run kind is required"), "kind")
	}
	switch r.Status {
	case domain.StatusSucceeded, domain.StatusFailed, domain.StatusSkipped:
	default:
		return perr.WithField(perr.InvalidArgf("run status %q is unknown", r.Status), "status")
	}
	insert := func(rp repo.Repo) error { return rp.Insert(ctx, r) }
	err := s.tx(ctx, insert)
	if perr.IsRetryable(err) {
		logger.C(ctx).Warn().Err(err).Str("run_id", r.ID).Msg("retrying training run insert")
		err = s.tx(ctx, insert)
	}
	if err != nil {
		return perr.FromPostgres(err, "record training run")
	}
	return nil
}

// Recent implements domain.QueryPort; newest first
func (s *Service) Recent(ctx context.Context, kind string, limit int) ([]domain.Run, error) {
	switch {
	case limit <= 0:
		limit = s.cfg.DefaultLimit
	case limit > s.cfg.HardLimit:
		limit = s.cfg.HardLimit
	}
	out, err := s.Repo.Recent(ctx, kind, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "list training runs")
	}
	return out, nil
}

// Disabled stands in when postgres is not configured
type Disabled struct{}

// Record drops the run
func (Disabled) Record(ctx context.Context, r domain.Run) error {
	logger.C(ctx).Debug().Str("run_id", r.ID).Str("model", r.Kind).Msg("run ledger disabled; run not recorded")
	return nil
}

// Recent reports the ledger as unavailable
func (Disabled) Recent(context.Context, string, int) ([]domain.Run, error) {
	return nil, perr.Unavailablef("training run ledger is disabled")
}
