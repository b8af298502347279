// Package domain holds DTOs for model administration
package domain

import (
	"time"

	"custintel/internal/core/registry"
)

// Model health values
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// ModelStatus describes one served model type
type ModelStatus struct {
	Kind      string     `json:"kind" example:"lead_quality"`
	Status    string     `json:"status" example:"healthy"`
	Reason    string     `json:"reason,omitempty" example:"bundle churn: missing model.json in models/churn"`
	Winner    string     `json:"winner,omitempty" example:"random_forest"`
	Metric    string     `json:"metric,omitempty" example:"accuracy"`
	Score     float64    `json:"score,omitempty" example:"0.91"`
	RunID     string     `json:"run_id,omitempty" example:"3b0e6c1e-5a0e-4a8f-9c61-3c2b8f0d9a11"`
	TrainedAt *time.Time `json:"trained_at,omitempty"`
	LoadedAt  *time.Time `json:"loaded_at,omitempty"`
}

// Registry is the slice of registry.Registry the module needs
type Registry interface {
	Status() []registry.Status
	Reload(kind string) (registry.Status, error)
}

// FromRegistry maps a registry status onto the wire shape
func FromRegistry(s registry.Status) ModelStatus {
	out := ModelStatus{Kind: s.Kind, Status: StatusDegraded, Reason: s.Reason, LoadedAt: s.LoadedAt}
	if s.Loaded {
		out.Status = StatusHealthy
	}
	if s.Info != nil {
		at := s.Info.TrainedAt
		out.Winner = s.Info.Winner
		out.Metric = string(s.Info.Metric)
		out.Score = s.Info.Score
		out.RunID = s.Info.RunID
		out.TrainedAt = &at
	}
	return out
}
