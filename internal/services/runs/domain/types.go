// Package domain holds the training run ledger types
package domain

import "time"

// Run outcomes
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// Run is one model's outcome within a trainer invocation
type Run struct {
	ID         string         `json:"id" example:"3b0e6c1e-5a0e-4a8f-9c61-3c2b8f0d9a11"`
	Kind       string         `json:"kind" example:"churn"`
	Status     string         `json:"status" example:"succeeded"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Rows       int            `json:"rows" example:"1200"`
	Classes    map[string]int `json:"classes,omitempty"`
	Heuristic  bool           `json:"heuristic_labels" example:"true"`
	Winner     string         `json:"winner,omitempty" example:"gradient_boosting"`
	Metric     string         `json:"metric,omitempty" example:"roc_auc"`
	Score      float64        `json:"score" example:"0.87"`
	ModelsDir  string         `json:"models_dir,omitempty" example:"models"`
	Error      string         `json:"error,omitempty"`
}

// Took is the wall time of the run
func (r Run) Took() time.Duration { return r.FinishedAt.Sub(r.StartedAt) }
