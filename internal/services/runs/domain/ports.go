package domain

import "context"

// RecorderPort appends runs to the ledger
type RecorderPort interface {
	Record(ctx context.Context, r Run) error
}

// QueryPort reads the ledger
type QueryPort interface {
	Recent(ctx context.Context, kind string, limit int) ([]Run, error)
}
