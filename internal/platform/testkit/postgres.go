//go:build integration_pg

package testkit

import (
	"context"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	tcpg "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresImage is the server the ledger is tested against
const PostgresImage = "postgres:16-alpine"

// Postgres starts a throwaway postgres for t and returns its url. The
// container is terminated when t ends; the first pull can be slow.
func Postgres(t testing.TB) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	c, err := tcpg.Run(ctx, PostgresImage,
		tcpg.WithDatabase("custintel"),
		tcpg.WithUsername("custintel"),
		tcpg.WithPassword("custintel"),
		// init runs a temporary server first, so ready is logged twice
		tc.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(2*time.Minute)),
	)
	if c != nil {
		t.Cleanup(func() {
			if err := c.Terminate(context.Background()); err != nil {
				t.Logf("terminate postgres: %v", err)
			}
		})
	}
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}

	url, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres url: %v", err)
	}
	return url
}
