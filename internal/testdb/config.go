package testdb

import (
	"fmt"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/phrazzld/botstore/internal/config"
	"github.com/phrazzld/botstore/internal/redact"
)

// SQLiteConfig returns a configuration for a fresh SQLite file in t.TempDir.
func SQLiteConfig(t *testing.T, mode string) config.Config {
	t.Helper()

	return config.Config{
		Database: config.DatabaseConfig{
			Driver:         config.DriverSQLite,
			Path:           filepath.Join(t.TempDir(), "botstore.db"),
			ConnectTimeout: 5 * time.Second,
		},
		Dispatch: config.DispatchConfig{Mode: mode},
		Log:      config.LogConfig{Level: "debug", Format: "text"},
	}
}

// PostgresConfig returns a configuration for the PostgreSQL database named by
// the environment, skipping the test when none is configured.
func PostgresConfig(t *testing.T, mode string) config.Config {
	t.Helper()

	if ShouldSkipDatabaseTest() {
		t.Skip(EnvDatabaseURL + " not set - skipping integration test")
	}

	dbCfg, err := ParseDatabaseURL(GetTestDatabaseURL())
	if err != nil {
		t.Fatalf("invalid test database URL %s: %v", MaskDatabaseURL(GetTestDatabaseURL()), err)
	}

	return config.Config{
		Database: dbCfg,
		Dispatch: config.DispatchConfig{Mode: mode},
		Log:      config.LogConfig{Level: "debug", Format: "text"},
	}
}

// ParseDatabaseURL converts a PostgreSQL connection string into a DatabaseConfig.
func ParseDatabaseURL(dbURL string) (config.DatabaseConfig, error) {
	connCfg, err := pgx.ParseConfig(dbURL)
	if err != nil {
		return config.DatabaseConfig{}, fmt.Errorf("failed to parse database URL: %w", err)
	}

	cfg := config.DatabaseConfig{
		Driver:          config.DriverPostgres,
		Host:            connCfg.Host,
		Port:            int(connCfg.Port),
		User:            connCfg.User,
		Password:        connCfg.Password,
		Name:            connCfg.Database,
		SSLMode:         "disable",
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
		ConnectTimeout:  5 * time.Second,
	}

	if u, err := url.Parse(dbURL); err == nil {
		if mode := u.Query().Get("sslmode"); mode != "" {
			cfg.SSLMode = mode
		}
	}

	return cfg, nil
}

// MaskDatabaseURL masks the password in a database URL for safe logging.
func MaskDatabaseURL(dbURL string) string {
	if _, err := url.Parse(dbURL); err != nil {
		return "invalid-url"
	}
	return redact.DSN(dbURL)
}
