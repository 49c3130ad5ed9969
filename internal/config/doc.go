// Package config handles configuration loading, parsing, and validation
// from environment variables, dotenv files and optional config files. The
// resulting Config is loaded once at process start and treated as immutable.
package config
