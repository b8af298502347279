//go:build integration_pg
// +build integration_pg

package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custintel/internal/platform/store"
	"custintel/internal/platform/testkit"
	"custintel/internal/services/runs/domain"
	"custintel/internal/services/runs/repo"
)

func TestRepo_Integration_InsertAndRecent(t *testing.T) {
	dsn := testkit.Postgres(t)
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	s, err := store.Open(ctx, store.Config{PG: store.PGConfig{Enabled: true, URL: dsn, MaxConns: 2}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	r := repo.NewPG().Bind(s.PG)
	require.NoError(t, r.EnsureSchema(ctx))
	require.NoError(t, r.EnsureSchema(ctx), "schema must be idempotent")

	id := uuid.NewString()
	base := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	lead := domain.Run{
		ID: id, Kind: "lead_quality", Status: domain.StatusSucceeded,
		StartedAt: base, FinishedAt: base.Add(2 * time.Second), Rows: 30,
		Classes: map[string]int{"cold": 10, "warm": 10, "hot": 10},
		Winner:  "random_forest", Metric: "accuracy", Score: 0.83, ModelsDir: "models",
	}
	churn := domain.Run{
		ID: id, Kind: "churn", Status: domain.StatusSkipped,
		StartedAt: base.Add(time.Second), FinishedAt: base.Add(time.Second), Error: "customer_behavior.csv not found",
	}
	require.NoError(t, r.Insert(ctx, lead))
	require.NoError(t, r.Insert(ctx, churn))

	// same run and kind upserts
	churn.Status, churn.Error = domain.StatusFailed, "only one class"
	require.NoError(t, r.Insert(ctx, churn))

	all, err := r.Recent(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "churn", all[0].Kind)
	assert.Equal(t, domain.StatusFailed, all[0].Status)
	assert.Equal(t, "only one class", all[0].Error)
	assert.Nil(t, all[0].Classes)

	got := all[1]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, lead.Classes, got.Classes)
	assert.Equal(t, "random_forest", got.Winner)
	assert.InDelta(t, 0.83, got.Score, 1e-12)
	assert.True(t, got.StartedAt.Equal(base))

	only, err := r.Recent(ctx, "lead_quality", 10)
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, "lead_quality", only[0].Kind)
}
