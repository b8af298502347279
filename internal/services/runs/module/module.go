// Package module implements the training run ledger module
package module

import (
	"context"

	"custintel/internal/modkit"
	"custintel/internal/modkit/httpkit"
	"custintel/internal/modkit/repokit"
	"custintel/internal/services/runs/domain"
	"custintel/internal/services/runs/repo"
	"custintel/internal/services/runs/service"
)

// Ports exposed by the runs module
type Ports struct {
	Recorder domain.RecorderPort
	Query    domain.QueryPort
}

// Module implements the runs service module
type Module struct {
	deps  modkit.Deps
	svc   *service.Service
	ports Ports
}

// New constructs the runs module; without postgres the ledger is disabled
func New(deps modkit.Deps) *Module {
	m := &Module{deps: deps}
	if deps.PG == nil {
		m.ports = Ports{Recorder: service.Disabled{}, Query: service.Disabled{}}
		return m
	}
	opts := FromConfig(deps.Cfg)
	db := repokit.WithBeginHooks(deps.PG,
		repokit.StatementTimeout(opts.StatementTimeout),
		repokit.LockTimeout(opts.LockTimeout),
	)
	m.svc = service.New(db, repo.NewPG(), service.Config{
		HardLimit:    opts.HardLimit,
		DefaultLimit: opts.DefaultLimit,
	})
	m.ports = Ports{Recorder: m.svc, Query: m.svc}
	return m
}

// Enabled reports whether runs reach postgres
func (m *Module) Enabled() bool { return m.svc != nil }

// EnsureSchema creates the ledger table when enabled
func (m *Module) EnsureSchema(ctx context.Context) error {
	if m.svc == nil {
		return nil
	}
	return m.svc.EnsureSchema(ctx)
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "runs" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Typed returns the ports without a type assertion
func (m *Module) Typed() Ports { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module; the ledger is read through api/runs
func (m *Module) MountRoutes(httpkit.Router) {}
