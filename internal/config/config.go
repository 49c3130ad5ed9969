package config

import (
	"time"

	"github.com/phrazzld/botstore/internal/redact"
)

// Database drivers understood by the platform layer.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Dispatch modes for the unit-of-work dispatcher.
const (
	// ModeShared keeps one long-lived pool and checks out a connection per call.
	ModeShared = "shared"
	// ModePerCall provisions and disposes a whole engine for every call.
	ModePerCall = "per_call"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" validate:"required" yaml:"database"`
	Dispatch DispatchConfig `mapstructure:"dispatch" validate:"required" yaml:"dispatch"`
	Log      LogConfig      `mapstructure:"log" validate:"required" yaml:"log"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver" validate:"required,oneof=postgres sqlite" yaml:"driver"`
	Host     string `mapstructure:"host" validate:"required_if=Driver postgres" yaml:"host"`
	Port     int    `mapstructure:"port" validate:"gte=0,lt=65536" yaml:"port"`
	User     string `mapstructure:"user" validate:"required_if=Driver postgres" yaml:"user"`
	Password string `mapstructure:"password" validate:"required_if=Driver postgres" yaml:"password"`
	Name     string `mapstructure:"name" validate:"required_if=Driver postgres" yaml:"name"`
	SSLMode  string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full" yaml:"ssl_mode"`

	// Path is the database file used by the sqlite driver.
	Path string `mapstructure:"path" validate:"required_if=Driver sqlite" yaml:"path"`

	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=0" yaml:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0" yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0" yaml:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout" validate:"gt=0" yaml:"connect_timeout"`
}

// Redacted returns a copy that is safe to log or print.
func (c DatabaseConfig) Redacted() DatabaseConfig {
	if c.Password != "" {
		c.Password = redact.Placeholder
	}
	return c
}

// DispatchConfig controls how the unit-of-work dispatcher provisions storage.
type DispatchConfig struct {
	Mode string `mapstructure:"mode" validate:"required,oneof=shared per_call" yaml:"mode"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error" yaml:"level"`
	Format string `mapstructure:"format" validate:"required,oneof=json text" yaml:"format"`

	// File enables a rotating log file next to stdout output when set.
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}
