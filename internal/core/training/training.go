// Package training fits the lead quality and churn models and assembles their bundles.
//
// Each problem runs the same pass: encode every row with a layout built from the
// data, split stratified, fit the scaler on the train partition only, select the
// best candidate on the held out partition, and package model, scaler and layout
// into one bundle. Saving is left to the caller.
package training

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"

	"custintel/internal/core/aggregate"
	"custintel/internal/core/bundle"
	"custintel/internal/core/classifier"
	"custintel/internal/core/codebook"
	"custintel/internal/core/features"
	"custintel/internal/core/scaler"
	"custintel/internal/core/selection"
	"custintel/internal/platform/logger"
)

// ErrNoRows is returned when a problem has nothing to train on
var ErrNoRows = errors.New("training: no rows")

// ErrUnknownLabel is returned when a row holds a value outside a fixed vocabulary
var ErrUnknownLabel = errors.New("training: label outside vocabulary")

// Result is a fitted bundle plus what went into it
type Result struct {
	Bundle    bundle.Bundle
	Rows      int
	Classes   map[string]int
	Heuristic bool
	Took      time.Duration
}

// Trainer runs training passes with one configuration
type Trainer struct {
	cfg     Config
	labeler ChurnLabeler
	now     func() time.Time
	newID   func() string
}

// Option customizes a Trainer
type Option func(*Trainer)

// WithLabeler replaces HeuristicChurnLabel for behaviour files without a churned column
func WithLabeler(l ChurnLabeler) Option {
	return func(t *Trainer) {
		if l != nil {
			t.labeler = l
		}
	}
}

// WithClock fixes the training timestamp
func WithClock(now func() time.Time) Option {
	return func(t *Trainer) { t.now = now }
}

// WithRunID fixes the run id stamped into bundles
func WithRunID(id string) Option {
	return func(t *Trainer) { t.newID = func() string { return id } }
}

// New returns a Trainer; cfg should come from LoadConfig or Defaults
func New(cfg Config, opts ...Option) *Trainer {
	t := &Trainer{
		cfg:     cfg,
		labeler: HeuristicChurnLabel,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// TrainLead fits the lead quality model; every row needs a quality of cold, warm or hot
func (t *Trainer) TrainLead(ctx context.Context, rows []features.Record) (Result, error) {
	if len(rows) == 0 {
		return Result{}, fmt.Errorf("%w: leads", ErrNoRows)
	}
	labels := codebook.LeadLabels()
	recs := make([]features.Record, len(rows))
	y := make([]int, len(rows))
	for i, r := range rows {
		code, ok := labels.Encode(r[features.FieldQuality])
		if !ok {
			return Result{}, fmt.Errorf("training: lead row %d: quality %q is not one of %s",
				i+1, r[features.FieldQuality], strings.Join(labels.Labels(), "|"))
		}
		rec := maps.Clone(r)
		if strings.TrimSpace(rec[features.FieldServiceType]) == "" {
			rec[features.FieldServiceType] = features.DefaultServiceType
		}
		recs[i], y[i] = rec, code
	}
	return t.fit(ctx, bundle.KindLead, features.LeadLayout(recs), labels, recs, y, t.cfg.Lead, false)
}

// TrainChurn joins behaviour with per customer transaction summaries and fits the churn model
// a churned column in behaviour wins over the labeler
func (t *Trainer) TrainChurn(ctx context.Context, behavior []features.Record, txns []aggregate.Transaction) (Result, error) {
	if len(behavior) == 0 {
		return Result{}, fmt.Errorf("%w: customer behaviour", ErrNoRows)
	}
	ids := make([]string, len(behavior))
	for i, r := range behavior {
		ids[i] = r[features.FieldCustomerID]
	}
	sums := aggregate.LeftJoin(ids, aggregate.ByCustomer(txns))

	truth := hasGroundTruth(behavior)
	labels := codebook.ChurnLabels()
	recs := make([]features.Record, len(behavior))
	y := make([]int, len(behavior))
	for i, r := range behavior {
		rec := maps.Clone(r)
		s := sums[i]
		rec[features.FieldTotalSpend] = features.FormatFloat(s.Total)
		rec[features.FieldAvgPurchase] = features.FormatFloat(s.Mean)
		rec[features.FieldTxnCount] = features.FormatFloat(float64(s.Count))
		rec[features.FieldSpendStdDev] = features.FormatFloat(s.StdDev)

		churned := t.labeler(rec)
		if truth {
			v, err := parseChurned(r[features.FieldChurned])
			if err != nil {
				return Result{}, fmt.Errorf("training: customer row %d: %w", i+1, err)
			}
			churned = v
		}
		if churned {
			y[i] = 1
		}
		recs[i] = rec
	}
	if !truth {
		logger.Named("training").Warn().Msg("behaviour has no churned column, labels come from the churn heuristic")
	}
	return t.fit(ctx, bundle.KindChurn, features.ChurnLayout(), labels, recs, y, t.cfg.Churn, !truth)
}

func (t *Trainer) fit(ctx context.Context, kind string, layout features.Layout, labels *codebook.Map, recs []features.Record, y []int, p Problem, heuristic bool) (Result, error) {
	start := t.now()
	log := logger.Named("training").With().Str("model", kind).Logger()

	classes := make(map[string]int, labels.Len())
	for _, c := range y {
		name, _ := labels.Decode(c)
		classes[name]++
	}
	ev := log.Info().Int("rows", len(y))
	for _, name := range labels.Labels() {
		ev = ev.Int(name, classes[name])
	}
	if kind == bundle.KindChurn {
		ev = ev.Float64("churn_rate", float64(classes[codebook.Churn])/float64(len(y)))
	}
	ev.Msg("class distribution")

	X, err := strictMatrix(layout, recs)
	if err != nil {
		return Result{}, fmt.Errorf("training %s: %w", kind, err)
	}
	split, err := selection.StratifiedSplit(y, labels.Len(), t.cfg.Holdout, t.cfg.Seed)
	if err != nil {
		return Result{}, fmt.Errorf("training %s: %w", kind, err)
	}
	XTrain, yTrain := selection.Take(X, y, split.Train)
	XTest, yTest := selection.Take(X, y, split.Test)

	st, err := scaler.Fit(XTrain)
	if err != nil {
		return Result{}, fmt.Errorf("training %s: %w", kind, err)
	}
	if XTrain, err = st.TransformAll(XTrain); err != nil {
		return Result{}, fmt.Errorf("training %s: %w", kind, err)
	}
	if XTest, err = st.TransformAll(XTest); err != nil {
		return Result{}, fmt.Errorf("training %s: %w", kind, err)
	}

	ds := selection.Dataset{XTrain: XTrain, YTrain: yTrain, XTest: XTest, YTest: yTest, NumClasses: labels.Len()}
	model, rep, err := selection.Select(ctx, seeded(p.Candidates, t.cfg.Seed), ds, p.Metric, func(r selection.Result) {
		if r.Error != "" {
			log.Warn().Str("candidate", r.Name).Str("error", r.Error).Msg("candidate failed")
			return
		}
		log.Info().Str("candidate", r.Name).Str("metric", string(p.Metric)).
			Float64("score", r.Score).Float64("accuracy", r.Accuracy).Float64("f1_macro", r.F1Macro).
			Msg("candidate evaluated")
	})
	if err != nil {
		return Result{}, fmt.Errorf("training %s: %w", kind, err)
	}

	b := bundle.Bundle{
		Model:  model,
		Scaler: st,
		Config: bundle.Config{
			Kind:      kind,
			RunID:     t.newID(),
			TrainedAt: t.now().UTC(),
			Layout:    layout,
			Labels:    labels,
			Selection: rep,
		},
	}
	if err := b.Validate(); err != nil {
		return Result{}, err
	}
	log.Info().Str("winner", rep.Winner).Float64("score", rep.Score).
		Int("train_rows", rep.TrainRows).Int("test_rows", rep.TestRows).Msg("model selected")
	return Result{Bundle: b, Rows: len(y), Classes: classes, Heuristic: heuristic, Took: t.now().Sub(start)}, nil
}

// seeded gives every candidate without its own seed the run seed
func seeded(specs []classifier.Spec, seed uint64) []classifier.Spec {
	out := make([]classifier.Spec, len(specs))
	for i, s := range specs {
		params := maps.Clone(s.Params)
		if params == nil {
			params = classifier.Params{}
		}
		if _, ok := params["seed"]; !ok {
			params["seed"] = float64(seed)
		}
		s.Params = params
		out[i] = s
	}
	return out
}

// strictMatrix vectorizes recs and refuses any value its vocabulary does
// not know; at serving time the same value would fall back to a default
func strictMatrix(layout features.Layout, recs []features.Record) ([][]float64, error) {
	X := make([][]float64, len(recs))
	for i, r := range recs {
		var unknown error
		v, err := layout.Vector(r, func(field, value string) {
			if unknown == nil {
				unknown = fmt.Errorf("%w: row %d: %s %q", ErrUnknownLabel, i+1, field, value)
			}
		})
		switch {
		case err != nil:
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		case unknown != nil:
			return nil, unknown
		}
		X[i] = v
	}
	return X, nil
}
