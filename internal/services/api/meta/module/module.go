// Package module mounts health, readiness and version under /meta
package module

import (
	"time"

	modkit "custintel/internal/modkit"
	"custintel/internal/modkit/httpkit"

	metahttp "custintel/internal/services/api/meta/http"
)

// ServiceName names the api in health and version payloads
const ServiceName = "custintel-api"

// New builds the meta module. Missing deps leave their readiness check skipped.
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	d := metahttp.Deps{ServiceName: ServiceName, StartedAt: time.Now()}
	// assign only when set so the interfaces stay nil rather than typed nil;
	// a ledger without Ping is left out of readiness
	if deps.Models != nil {
		d.Models = deps.Models
	}
	if p, ok := deps.PG.(metahttp.Pinger); ok {
		d.PG = p
	}
	return modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
		modkit.WithRoutes(func(r httpkit.Router) { metahttp.Register(r, d) }),
	}, opts...)...)
}
