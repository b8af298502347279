// @title         custintel API
// @version       0.1.0
// @description   Lead quality and churn scoring over trained model bundles
// @BasePath      /api/v1

// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"custintel/internal/core/registry"
	"custintel/internal/core/scoring"
	"custintel/internal/modkit"
	"custintel/internal/modkit/httpkit"
	"custintel/internal/modkit/repokit"
	"custintel/internal/platform/config"
	"custintel/internal/platform/logger"
	"custintel/internal/platform/metrics"
	phttp "custintel/internal/platform/net/http"
	"custintel/internal/platform/store"

	"custintel/internal/services/api"
	runsmod "custintel/internal/services/runs/module"
)

var defaultOrigins = []string{"http://localhost:3000", "http://localhost:3001", "http://127.0.0.1:3000"}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// service-scoped config (CUSTINTEL_API_*)
	root := config.New()
	apiCfg := root.Prefix("CUSTINTEL_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")

	// bring up logging early
	l := logger.Get()

	// postgres only backs the training run ledger, so it is optional here
	pgOn := pgCfg.MayBool("ENABLED", false)
	var pgURL string
	if pgOn {
		pgURL = pgCfg.MustString("DBURL")
	}
	st, err := store.Open(ctx, store.Config{
		AppName: "custintel-api",
		PG: store.PGConfig{
			Enabled:     pgOn,
			URL:         pgURL,
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	repokit.MustGuard(ctx, st)

	// training runs are written by custintel-train; the api only reads them
	if st.PG != nil {
		ledger := runsmod.New(modkit.Deps{Log: *l, Cfg: apiCfg, PG: st.PG})
		if err := ledger.EnsureSchema(ctx); err != nil {
			l.Panic().Err(err).Msg("runs schema")
		}
	}

	m := metrics.New()
	unknownLog := logger.Named("scoring")
	reg := registry.New(registry.Config{
		ModelsDir: apiCfg.MayString("MODELS_DIR", "models"),
		Lazy:      apiCfg.MayBool("LAZY_LOAD", false),
		OnLoad:    m.Loaded,
		Scoring: []scoring.Option{
			scoring.WithWorkers(apiCfg.MayInt("BATCH_WORKERS", 0)),
			scoring.WithUnknownObserver(func(kind, field, value string) {
				m.UnknownCategory(kind, field, value)
				unknownLog.Debug().Str("model", kind).Str("field", field).Str("value", value).Msg("unknown category")
			}),
		},
	})
	if !apiCfg.MayBool("LAZY_LOAD", false) {
		// a missing bundle leaves that model unavailable; the server still starts
		if err := reg.LoadAll(); err != nil {
			l.Warn().Err(err).Msg("not every model loaded; run custintel-train")
		}
	}

	// http server (reads CUSTINTEL_API_PORT)
	srv := phttp.NewServer(root.Prefix("CUSTINTEL_"))

	api.Mount(
		srv.Router(),
		api.Options{
			Config:   apiCfg,
			Store:    st,
			Logger:   l,
			Registry: reg,
			Metrics:  m,
			Stack: httpkit.StackOptions{
				Origins:     apiCfg.MayCSV("CORS_ORIGINS", defaultOrigins),
				Timeout:     apiCfg.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
				MaxInFlight: apiCfg.MayInt("MAX_INFLIGHT", 0),
				Slow:        apiCfg.MayDuration("SLOW_REQUEST", 500*time.Millisecond),
				QuietPaths:  apiCfg.MayCSV("ACCESS_LOG_SKIP", []string{"/api/v1/meta/health"}),
			},
			MaxBodyBytes:   int64(apiCfg.MayInt("MAX_BODY_BYTES", 1<<20)),
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	// Run drains in flight requests once ctx is cancelled
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
