// Package dbtest starts a disposable Postgres for package tests.
package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/taiwoajasa245/quran-sukoon-api/internal/database"
	"github.com/taiwoajasa245/quran-sukoon-api/pkg/logging"
)

// Start boots a throwaway Postgres container and returns a connected Service.
// The container is terminated when the test finishes. Skipped under -short.
func Start(t testing.TB) database.Service {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container tests skipped in -short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("quran_sukoon"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}
	srv, err := database.Open(dsn, "quran_sukoon", logging.Discard())
	if err != nil {
		t.Fatalf("database.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}
