// Package module mounts model administration under /models
package module

import (
	modkit "custintel/internal/modkit"
	"custintel/internal/modkit/httpkit"

	modelshttp "custintel/internal/services/api/models/http"
)

// New builds the models module; deps.Models is required
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	if deps.Models == nil {
		panic("models module requires deps.Models")
	}
	d := modelshttp.Deps{
		Registry:    deps.Models,
		AdminReload: deps.Cfg.MayBool("ADMIN_RELOAD", true),
		Auth:        httpkit.NewTokenPort(deps.Cfg.MayString("ADMIN_TOKEN", ""), "admin"),
	}
	return modkit.Build(append([]modkit.Option{
		modkit.WithName("models"),
		modkit.WithPrefix("/models"),
		modkit.WithRoutes(func(r httpkit.Router) { modelshttp.Register(r, d) }),
	}, opts...)...)
}
