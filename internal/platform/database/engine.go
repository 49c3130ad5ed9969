package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/phrazzld/botstore/internal/config"
	"github.com/phrazzld/botstore/internal/platform/postgres"
	"github.com/phrazzld/botstore/internal/platform/sqlite"
	"github.com/phrazzld/botstore/internal/redact"
	"github.com/phrazzld/botstore/internal/store"
)

// memoryPath selects a private in-memory SQLite database.
const memoryPath = ":memory:"

// Engine is an open connection pool together with the dialect it speaks.
type Engine struct {
	DB      *sql.DB
	Dialect store.Dialect
}

// Close releases every connection held by the engine.
func (e *Engine) Close() error {
	return e.DB.Close()
}

// DialectFor returns the dialect registered for a configured driver name.
func DialectFor(driver string) (store.Dialect, error) {
	switch driver {
	case config.DriverPostgres:
		return postgres.Dialect(), nil
	case config.DriverSQLite:
		return sqlite.Dialect(), nil
	default:
		return store.Dialect{}, fmt.Errorf("%w: unsupported database driver %q", config.ErrInvalidConfig, driver)
	}
}

// DSN builds the driver connection string for cfg.
func DSN(cfg config.DatabaseConfig) (string, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		u := url.URL{
			Scheme: "postgres",
			Host:   cfg.Host,
			Path:   "/" + cfg.Name,
		}
		if cfg.Port != 0 {
			u.Host = cfg.Host + ":" + strconv.Itoa(cfg.Port)
		}
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		} else if cfg.User != "" {
			u.User = url.User(cfg.User)
		}

		q := url.Values{}
		if cfg.SSLMode != "" {
			q.Set("sslmode", cfg.SSLMode)
		}
		if secs := int(cfg.ConnectTimeout.Seconds()); secs > 0 {
			q.Set("connect_timeout", strconv.Itoa(secs))
		}
		u.RawQuery = q.Encode()
		return u.String(), nil
	case config.DriverSQLite:
		if cfg.Path == "" {
			return "", fmt.Errorf("%w: sqlite driver requires a database path", config.ErrInvalidConfig)
		}
		return sqlite.DSN(cfg.Path), nil
	default:
		return "", fmt.Errorf("%w: unsupported database driver %q", config.ErrInvalidConfig, cfg.Driver)
	}
}

// Open creates an engine for cfg and verifies it with a ping bounded by
// cfg.ConnectTimeout. Connection failures wrap store.ErrTransient.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*Engine, error) {
	if log == nil {
		log = slog.Default()
	}

	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Driver == config.DriverSQLite && cfg.Path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(dialect.DriverName, dsn)
	if err != nil {
		log.Error("failed to open database connection",
			slog.String("driver", cfg.Driver),
			slog.String("error", redact.Error(err)))
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	configurePool(db, cfg)

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		mapped := dialect.Map(err)
		log.Error("failed to ping database",
			slog.String("driver", cfg.Driver),
			slog.String("error", redact.Error(mapped)))
		if !store.IsTransientError(mapped) {
			mapped = fmt.Errorf("%w: %w", store.ErrTransient, mapped)
		}
		return nil, fmt.Errorf("failed to ping database: %w", mapped)
	}

	log.Debug("database connection established",
		slog.String("driver", cfg.Driver),
		slog.String("host", cfg.Host),
		slog.String("name", cfg.Name),
		slog.String("path", cfg.Path))

	return &Engine{DB: db, Dialect: dialect}, nil
}

func configurePool(db *sql.DB, cfg config.DatabaseConfig) {
	if cfg.Driver == config.DriverSQLite {
		// One writer per file; a second connection would only ever wait on
		// the first, and an in-memory database must never be re-created.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		return
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}
