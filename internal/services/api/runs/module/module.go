// Package module exposes the training run ledger under /runs
package module

import (
	modkit "custintel/internal/modkit"
	"custintel/internal/modkit/httpkit"
	"custintel/internal/modkit/module"

	runshttp "custintel/internal/services/api/runs/http"
	"custintel/internal/services/runs/domain"
	runsmod "custintel/internal/services/runs/module"
)

// New builds the read side of the ledger; without deps.PG listing answers 503
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	q := module.MustPortsOf[domain.QueryPort](runsmod.New(deps))
	return modkit.Build(append([]modkit.Option{
		modkit.WithName("runs"),
		modkit.WithPrefix("/runs"),
		modkit.WithRoutes(func(r httpkit.Router) { runshttp.Register(r, q) }),
		modkit.WithPorts(q),
	}, opts...)...)
}
