// Package module mounts lead scoring and churn prediction under /predict
package module

import (
	modkit "custintel/internal/modkit"
	"custintel/internal/modkit/httpkit"

	predicthttp "custintel/internal/services/api/predict/http"
	predictsvc "custintel/internal/services/api/predict/service"
)

// New builds the predict module; deps.Models is required. Its port is the
// predictsvc.Service.
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	if deps.Models == nil {
		panic("predict module requires deps.Models")
	}
	o := predictsvc.Options{BatchMax: deps.Cfg.MayInt("BATCH_MAX", 0)}
	if deps.Metrics != nil {
		o.Observer = deps.Metrics
	}
	svc := predictsvc.New(deps.Models, o)

	return modkit.Build(append([]modkit.Option{
		modkit.WithName("predict"),
		modkit.WithPrefix("/predict"),
		modkit.WithRoutes(func(r httpkit.Router) { predicthttp.Register(r, svc) }),
		modkit.WithPorts(svc),
	}, opts...)...)
}
