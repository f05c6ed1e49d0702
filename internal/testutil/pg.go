// README: Postgres helpers for DB-backed tests (skipped unless RIDEPOOL_TEST_DSN is set).
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"ridepool/internal/infra"
)

// NewTestDB connects to RIDEPOOL_TEST_DSN, applies migrations and empties every table.
func NewTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("RIDEPOOL_TEST_DSN")
	if dsn == "" {
		t.Skip("RIDEPOOL_TEST_DSN not set; skipping DB-backed tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	root, err := infra.FindRepoRoot()
	if err != nil {
		t.Fatalf("repo root: %v", err)
	}
	if err := infra.ApplyMigrations(ctx, db, filepath.Join(root, "migrations")); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
	if _, err := db.Exec(ctx, "TRUNCATE TABLE bookings, rides, vehicles"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
	return db
}
