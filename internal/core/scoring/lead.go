package scoring

import (
	"context"

	"custintel/internal/core/bundle"
	"custintel/internal/core/classifier"
	"custintel/internal/core/codebook"
	"custintel/internal/core/features"
)

// LeadScore is the prediction for one lead
type LeadScore struct {
	Label            string             `json:"label"`
	ProbabilityOfHot float64            `json:"probability_of_hot"`
	Distribution     map[string]float64 `json:"distribution"`
}

// LeadEngine scores leads against a lead quality bundle
type LeadEngine struct {
	e   *engine
	hot int
}

// NewLead checks b carries the lead columns and the cold/warm/hot labels
func NewLead(b bundle.Bundle, opts ...Option) (*LeadEngine, error) {
	want := codebook.LeadLabels()
	e, err := newEngine(b, bundle.KindLead, features.LeadColumns, want.Labels(), opts)
	if err != nil {
		return nil, err
	}
	hot, _ := want.Encode(codebook.LeadHot)
	return &LeadEngine{e: e, hot: hot}, nil
}

// Info describes the loaded bundle
func (l *LeadEngine) Info() Info { return l.e.info }

// Score predicts the quality of one lead
func (l *LeadEngine) Score(rec features.Record) (LeadScore, error) {
	p, err := l.e.proba(rec)
	if err != nil {
		return LeadScore{}, err
	}
	label, err := l.e.labels.Decode(classifier.Predict(p))
	if err != nil {
		return LeadScore{}, err
	}
	dist := make(map[string]float64, len(p))
	for code, v := range p {
		name, err := l.e.labels.Decode(code)
		if err != nil {
			return LeadScore{}, err
		}
		dist[name] = v
	}
	return LeadScore{Label: label, ProbabilityOfHot: p[l.hot], Distribution: dist}, nil
}

// ScoreBatch scores every record, output order matching input order
func (l *LeadEngine) ScoreBatch(ctx context.Context, recs []features.Record) ([]LeadScore, error) {
	return batch(ctx, l.e.workers, recs, l.Score)
}
