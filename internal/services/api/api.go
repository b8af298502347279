// Package api provides the HTTP API for the application
package api

import (
	stdhttp "net/http"

	"custintel/internal/core/registry"
	"custintel/internal/core/version"
	"custintel/internal/platform/config"
	"custintel/internal/platform/logger"
	"custintel/internal/platform/metrics"
	"custintel/internal/platform/net/middleware"
	phttp "custintel/internal/platform/net/http"
	"custintel/internal/platform/store"

	"custintel/internal/modkit"
	"custintel/internal/modkit/httpkit"
	"custintel/internal/modkit/module"
	"custintel/internal/modkit/swaggerkit"

	metamod "custintel/internal/services/api/meta/module"
	modelsmod "custintel/internal/services/api/models/module"
	predictmod "custintel/internal/services/api/predict/module"
	runsmod "custintel/internal/services/api/runs/module"
)

// Options are the API options
type Options struct {
	Config config.Conf
	// Store is optional; without postgres the run ledger reports disabled
	Store    *store.Store
	Logger   *logger.Logger
	Registry *registry.Registry
	// Metrics is optional; /metrics is only mounted when set
	Metrics *metrics.Metrics
	// Stack tunes the middleware on /api/v1 (CORS origins, timeout, in flight cap)
	Stack httpkit.StackOptions
	// MaxBodyBytes caps prediction request bodies; 0 disables the cap
	MaxBodyBytes   int64
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router and returns the
// modules under /api/v1
func Mount(r phttp.Router, opt Options) module.Set {
	if opt.Registry == nil {
		panic("api.Mount requires a model registry")
	}

	// shared deps for modules
	deps := modkit.Deps{
		Cfg:     opt.Config,
		Models:  opt.Registry,
		Metrics: opt.Metrics,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}
	if opt.Store != nil && opt.Store.PG != nil {
		deps.PG = opt.Store.PG
	}

	mods := []module.Module{
		metamod.New(deps),
		predictmod.New(deps, modkit.WithMiddlewares(middleware.RequestSize(opt.MaxBodyBytes))),
		modelsmod.New(deps),
		runsmod.New(deps),
	}

	// Swagger, profiler and metrics live outside the versioned stack
	swaggerkit.Mount(r, swaggerkit.Options{
		Enabled: opt.EnableSwagger,
		Version: version.Info(metamod.ServiceName).Version,
	})
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler,
		httpkit.Auth(httpkit.NewTokenPort(opt.Config.MayString("ADMIN_TOKEN", ""), "admin")))
	if opt.Metrics != nil {
		r.Handle("/metrics", opt.Metrics.Handler())
	}
	// load balancer probe, answered without touching the api stack
	r.Handle("/ping", middleware.Heartbeat("/ping")(stdhttp.NotFoundHandler()))

	// versioned API with a common middleware stack
	var set module.Set
	httpkit.MountAPIV1(r, httpkit.CommonStack(opt.Stack), func(api httpkit.Router) {
		set = module.Mount(api, mods...)
	})
	logger.Named("api").Info().Strs("modules", set.Names()).Msg("api mounted")
	return set
}
