package testdb

import (
	"context"
	"database/sql"
	"testing"

	"github.com/phrazzld/botstore/internal/config"
	"github.com/phrazzld/botstore/internal/platform/database"
)

// OpenSQLite opens a schema-ready SQLite engine that is closed when the test ends.
func OpenSQLite(t *testing.T) *database.Engine {
	t.Helper()
	return OpenEngine(t, SQLiteConfig(t, config.ModePerCall).Database)
}

// OpenEngine opens an engine for cfg, applies migrations and registers cleanup.
func OpenEngine(t *testing.T, cfg config.DatabaseConfig) *database.Engine {
	t.Helper()

	ctx := context.Background()
	engine, err := database.Open(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := engine.Close(); err != nil {
			t.Logf("warning: failed to close test database: %v", err)
		}
	})

	if _, err := database.EnsureSchema(ctx, engine, nil); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	return engine
}

// WithTx runs fn inside a transaction that is always rolled back.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			t.Logf("warning: failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}
	return n
}
