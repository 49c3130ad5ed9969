package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/botstore/internal/platform/logger"
	"github.com/pressly/goose/v3"
	goosedb "github.com/pressly/goose/v3/database"
	"github.com/pressly/goose/v3/lock"
)

// MigrationTableName is the name of the table used by goose to track migrations.
const MigrationTableName = "schema_migrations"

func newProvider(e *Engine, log *slog.Logger) (*goose.Provider, error) {
	var (
		dialect goosedb.Dialect
		opts    []goose.ProviderOption
	)

	switch e.Dialect.Name {
	case "postgres":
		dialect = goosedb.DialectPostgres
		locker, err := lock.NewPostgresSessionLocker()
		if err != nil {
			return nil, fmt.Errorf("failed to create migration lock: %w", err)
		}
		opts = append(opts, goose.WithSessionLocker(locker))
	case "sqlite":
		dialect = goosedb.DialectSQLite3
	default:
		return nil, fmt.Errorf("no migration dialect for %q", e.Dialect.Name)
	}

	gooseStore, err := goosedb.NewStore(dialect, MigrationTableName)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration store: %w", err)
	}

	opts = append(opts,
		goose.WithStore(gooseStore),
		goose.WithLogger(logger.NewGooseLogger(log)),
		goose.WithDisableGlobalRegistry(true),
	)

	// The provider is never closed: Close would close the engine's pool.
	provider, err := goose.NewProvider("", e.DB, e.Dialect.Migrations, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, nil
}

// EnsureSchema applies every pending migration and returns the resulting
// schema version. Running it against an up-to-date schema is a no-op.
func EnsureSchema(ctx context.Context, e *Engine, log *slog.Logger) (int64, error) {
	log = logger.FromContextOrDefault(ctx, log)

	provider, err := newProvider(e, log)
	if err != nil {
		return 0, err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		log.Error("schema migration failed", slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to apply migrations: %w", e.Dialect.Map(err))
	}

	for _, r := range results {
		log.Info("applied migration",
			slog.String("source", r.Source.Path),
			slog.Int64("version", r.Source.Version),
			slog.Duration("duration", r.Duration))
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", e.Dialect.Map(err))
	}

	log.Debug("schema is up to date",
		slog.Int64("version", version),
		slog.Int("applied", len(results)))
	return version, nil
}

// SchemaStatus reports every known migration and whether it has been applied.
func SchemaStatus(ctx context.Context, e *Engine, log *slog.Logger) ([]*goose.MigrationStatus, error) {
	provider, err := newProvider(e, logger.FromContextOrDefault(ctx, log))
	if err != nil {
		return nil, err
	}

	status, err := provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", e.Dialect.Map(err))
	}
	return status, nil
}

// RollbackSchema reverts the most recently applied migration.
func RollbackSchema(ctx context.Context, e *Engine, log *slog.Logger) (*goose.MigrationResult, error) {
	log = logger.FromContextOrDefault(ctx, log)

	provider, err := newProvider(e, log)
	if err != nil {
		return nil, err
	}

	result, err := provider.Down(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to roll back migration: %w", e.Dialect.Map(err))
	}

	log.Info("rolled back migration",
		slog.String("source", result.Source.Path),
		slog.Int64("version", result.Source.Version))
	return result, nil
}
