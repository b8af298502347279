package scoring

import (
	"context"

	"custintel/internal/core/bundle"
	"custintel/internal/core/codebook"
	"custintel/internal/core/features"
)

// ChurnScore is the prediction for one customer
type ChurnScore struct {
	Churn       bool    `json:"churn"`
	Probability float64 `json:"probability"`
}

// ChurnEngine scores customers against a churn bundle
type ChurnEngine struct {
	e     *engine
	churn int
}

// NewChurn checks b carries the churn columns and the no_churn/churn labels
func NewChurn(b bundle.Bundle, opts ...Option) (*ChurnEngine, error) {
	want := codebook.ChurnLabels()
	e, err := newEngine(b, bundle.KindChurn, features.ChurnColumns, want.Labels(), opts)
	if err != nil {
		return nil, err
	}
	churn, _ := want.Encode(codebook.Churn)
	return &ChurnEngine{e: e, churn: churn}, nil
}

// Info describes the loaded bundle
func (c *ChurnEngine) Info() Info { return c.e.info }

// Score returns the churn probability of one customer
func (c *ChurnEngine) Score(rec features.Record) (ChurnScore, error) {
	p, err := c.e.proba(rec)
	if err != nil {
		return ChurnScore{}, err
	}
	prob := p[c.churn]
	return ChurnScore{Churn: prob >= 0.5, Probability: prob}, nil
}

// ScoreBatch scores every record, output order matching input order
func (c *ChurnEngine) ScoreBatch(ctx context.Context, recs []features.Record) ([]ChurnScore, error) {
	return batch(ctx, c.e.workers, recs, c.Score)
}
