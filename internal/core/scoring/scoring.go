// Package scoring turns raw records into predictions using a loaded bundle.
//
// Engines are read only over their bundle: every call rebuilds the vector with
// the persisted layout, applies the persisted scaler and asks the persisted
// classifier. Two calls with the same record return identical output.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"custintel/internal/core/bundle"
	"custintel/internal/core/classifier"
	"custintel/internal/core/codebook"
	"custintel/internal/core/features"
	"custintel/internal/core/scaler"
	"custintel/internal/core/selection"
)

// ErrLabelMismatch marks a bundle whose label vocabulary is not the expected one
var ErrLabelMismatch = errors.New("scoring: label vocabulary mismatch")

// ItemError locates a failed record inside a batch
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string { return fmt.Sprintf("item %d: %v", e.Index, e.Err) }

// Unwrap exposes the cause
func (e *ItemError) Unwrap() error { return e.Err }

// UnknownObserver is told about categories the bundle never saw, tagged with the model kind
type UnknownObserver func(kind, field, value string)

// Option configures an engine
type Option func(*engine)

// WithUnknownObserver reports unseen categorical values
func WithUnknownObserver(obs UnknownObserver) Option {
	return func(e *engine) { e.unknown = obs }
}

// WithWorkers bounds ScoreBatch concurrency; n <= 0 means GOMAXPROCS
func WithWorkers(n int) Option {
	return func(e *engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// Info describes the bundle an engine serves
type Info struct {
	Kind      string           `json:"kind"`
	RunID     string           `json:"run_id,omitempty"`
	TrainedAt time.Time        `json:"trained_at"`
	Winner    string           `json:"winner"`
	Metric    selection.Metric `json:"metric"`
	Score     float64          `json:"score"`
	Columns   []string         `json:"columns"`
}

type engine struct {
	kind    string
	model   classifier.Classifier
	scaler  scaler.State
	layout  features.Layout
	labels  *codebook.Map
	info    Info
	unknown UnknownObserver
	workers int
}

func newEngine(b bundle.Bundle, kind string, columns, labels []string, opts []Option) (*engine, error) {
	if b.Config.Kind != kind {
		return nil, fmt.Errorf("scoring: bundle is for %q, want %q", b.Config.Kind, kind)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if err := b.Config.Layout.Expect(columns); err != nil {
		return nil, fmt.Errorf("scoring %s: %w", kind, err)
	}
	if got := b.Config.Labels.Labels(); !slices.Equal(got, labels) {
		return nil, fmt.Errorf("%w: %s has %v, want %v", ErrLabelMismatch, kind, got, labels)
	}
	e := &engine{
		kind:    kind,
		model:   b.Model,
		scaler:  b.Scaler,
		layout:  b.Config.Layout,
		labels:  b.Config.Labels,
		workers: runtime.GOMAXPROCS(0),
		info: Info{
			Kind:      kind,
			RunID:     b.Config.RunID,
			TrainedAt: b.Config.TrainedAt,
			Winner:    b.Config.Selection.Winner,
			Metric:    b.Config.Selection.Metric,
			Score:     b.Config.Selection.Score,
			Columns:   b.Config.Layout.Names(),
		},
	}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

func (e *engine) proba(rec features.Record) ([]float64, error) {
	var obs features.UnknownObserver
	if e.unknown != nil {
		obs = func(field, value string) { e.unknown(e.kind, field, value) }
	}
	x, err := e.layout.Vector(rec, obs)
	if err != nil {
		return nil, err
	}
	z, err := e.scaler.Transform(x)
	if err != nil {
		return nil, err
	}
	return e.model.PredictProba(z), nil
}

// batch scores recs concurrently and keeps input order
func batch[T any](ctx context.Context, workers int, recs []features.Record, score func(features.Record) (T, error)) ([]T, error) {
	out := make([]T, len(recs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, rec := range recs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := score(rec)
			if err != nil {
				return &ItemError{Index: i, Err: err}
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
