// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package for structured JSON or
// text logging with configurable log levels, optional file rotation through
// lumberjack, and helpers to carry a request-scoped logger in a context.
package logger
