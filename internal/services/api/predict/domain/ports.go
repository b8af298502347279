package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Lead(ctx context.Context, in LeadInput) (LeadOutput, error)
	LeadBatch(ctx context.Context, in LeadBatchInput) ([]LeadOutput, error)
	Churn(ctx context.Context, in ChurnInput) (ChurnOutput, error)
	ChurnBatch(ctx context.Context, in ChurnBatchInput) ([]ChurnOutput, error)
}
