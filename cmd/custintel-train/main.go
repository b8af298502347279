package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"custintel/internal/adapters/dataset"
	"custintel/internal/core/bundle"
	"custintel/internal/core/training"
	"custintel/internal/modkit"
	"custintel/internal/modkit/repokit"
	"custintel/internal/platform/config"
	"custintel/internal/platform/logger"
	"custintel/internal/platform/store"

	runsdom "custintel/internal/services/runs/domain"
	runsmod "custintel/internal/services/runs/module"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := config.New()
	trainCfg := root.Prefix("CUSTINTEL_TRAIN_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")

	var (
		fData   = flag.String("data", trainCfg.MayString("DATA_DIR", "data"), "directory holding the training CSV exports")
		fModels = flag.String("models", trainCfg.MayString("MODELS_DIR", "models"), "bundle root written by this run")
		fConfig = flag.String("config", trainCfg.MayString("CONFIG", ""), "training YAML; empty means built in defaults")
		fSeed   = flag.String("seed", trainCfg.MayString("SEED", ""), "override the configured random seed")
		fOnly   = flag.String("only", trainCfg.MayEnum("ONLY", "", bundle.KindLead, bundle.KindChurn), "train a single model: lead_quality | churn")
	)
	flag.Parse()

	l := logger.Get()
	log := logger.Named("train")

	cfg, err := training.LoadConfig(*fConfig)
	if err != nil {
		l.Panic().Err(err).Msg("bad training config")
	}
	cfg.Holdout = trainCfg.MayFloat64("HOLDOUT", cfg.Holdout)
	if *fSeed != "" {
		seed, err := strconv.ParseUint(*fSeed, 10, 64)
		if err != nil {
			l.Panic().Err(err).Str("seed", *fSeed).Msg("bad -seed")
		}
		cfg.Seed = seed
	}
	*fOnly = strings.ToLower(*fOnly)
	if *fOnly != "" && *fOnly != bundle.KindLead && *fOnly != bundle.KindChurn {
		l.Panic().Str("only", *fOnly).Msg("-only must be lead_quality or churn")
	}
	if err := cfg.Validate(); err != nil {
		l.Panic().Err(err).Msg("bad training config")
	}

	pgOn := pgCfg.MayBool("ENABLED", false)
	var pgURL string
	if pgOn {
		pgURL = pgCfg.MustString("DBURL")
	}
	st, err := store.Open(ctx, store.Config{
		AppName: "custintel-train",
		PG: store.PGConfig{
			Enabled:     pgOn,
			URL:         pgURL,
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 2)),
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

	// the ledger is disabled when postgres is off; recording is then a no op
	deps := modkit.Deps{Cfg: trainCfg, PG: st.PG, Log: *l}
	ledger := runsmod.New(deps)
	if err := ledger.EnsureSchema(ctx); err != nil {
		l.Panic().Err(err).Msg("runs schema")
	}

	runID := uuid.NewString()
	j := job{
		ctx:      ctx,
		runID:    runID,
		data:     *fData,
		models:   *fModels,
		cfg:      cfg,
		trainer:  training.New(cfg, training.WithRunID(runID)),
		recorder: ledger.Typed().Recorder,
	}

	log.Info().
		Str("run_id", runID).
		Str("data", j.data).
		Str("models", j.models).
		Uint64("seed", cfg.Seed).
		Float64("holdout", cfg.Holdout).
		Bool("ledger", ledger.Enabled()).
		Msg("training started")

	var failed []string
	if *fOnly == "" || *fOnly == bundle.KindLead {
		if !j.run(bundle.KindLead, j.lead) {
			failed = append(failed, bundle.KindLead)
		}
	}
	if *fOnly == "" || *fOnly == bundle.KindChurn {
		if !j.run(bundle.KindChurn, j.churn) {
			failed = append(failed, bundle.KindChurn)
		}
	}

	if len(failed) > 0 {
		log.Error().Strs("failed", failed).Str("run_id", runID).Msg("training finished with failures")
		os.Exit(1)
	}
	log.Info().Str("run_id", runID).Msg("training finished")
}

// job carries one trainer invocation; every model shares its run id
type job struct {
	ctx      context.Context
	runID    string
	data     string
	models   string
	cfg      training.Config
	trainer  *training.Trainer
	recorder runsdom.RecorderPort
}

// errSkipped marks a model whose input files are absent
var errSkipped = errors.New("input files absent")

func (j job) lead() (training.Result, error) {
	rows, err := dataset.Leads(j.data, j.cfg.Columns.Leads)
	if err != nil {
		return training.Result{}, missingAsSkip(err)
	}
	return j.trainer.TrainLead(j.ctx, rows)
}

func (j job) churn() (training.Result, error) {
	behavior, err := dataset.Behavior(j.data, j.cfg.Columns.Behavior)
	if err != nil {
		return training.Result{}, missingAsSkip(err)
	}
	txns, err := dataset.Transactions(j.data, j.cfg.Columns.Transactions)
	if err != nil {
		return training.Result{}, missingAsSkip(err)
	}
	return j.trainer.TrainChurn(j.ctx, behavior, txns)
}

func missingAsSkip(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return errors.Join(errSkipped, err)
	}
	return err
}

// run trains, saves and records one model; it reports false only on failure
func (j job) run(kind string, fit func() (training.Result, error)) bool {
	log := logger.Named("train").With().Str("model", kind).Str("run_id", j.runID).Logger()
	started := time.Now().UTC()
	rec := runsdom.Run{ID: j.runID, Kind: kind, StartedAt: started, ModelsDir: j.models}

	res, err := fit()
	if err == nil {
		err = bundle.Save(j.models, res.Bundle)
	}
	rec.FinishedAt = time.Now().UTC()

	ok := true
	switch {
	case errors.Is(err, errSkipped):
		rec.Status, rec.Error = runsdom.StatusSkipped, err.Error()
		log.Warn().Err(err).Msg("model skipped, previous bundle left in place")
	case err != nil:
		rec.Status, rec.Error = runsdom.StatusFailed, err.Error()
		log.Error().Err(err).Msg("model failed, previous bundle left in place")
		ok = false
	default:
		sel := res.Bundle.Config.Selection
		rec.Status = runsdom.StatusSucceeded
		rec.Rows, rec.Classes, rec.Heuristic = res.Rows, res.Classes, res.Heuristic
		rec.Winner, rec.Metric, rec.Score = sel.Winner, string(sel.Metric), sel.Score
		log.Info().
			Int("rows", res.Rows).
			Interface("classes", res.Classes).
			Bool("heuristic_labels", res.Heuristic).
			Str("winner", sel.Winner).
			Str("metric", string(sel.Metric)).
			Float64("score", sel.Score).
			Dur("took", res.Took).
			Str("dir", bundle.Dir(j.models, kind)).
			Msg("model saved")
	}

	// the bundle on disk is the source of truth; a ledger failure only gets logged
	if err := j.recorder.Record(j.ctx, rec); err != nil {
		log.Error().Err(err).Msg("record training run")
	}
	return ok
}
