package logger

import (
	"fmt"
	"log/slog"
	"strings"
)

// GooseLogger adapts slog to goose's logger interface.
type GooseLogger struct {
	logger *slog.Logger
}

// NewGooseLogger wraps l for use with goose.WithLogger.
func NewGooseLogger(l *slog.Logger) *GooseLogger {
	if l == nil {
		l = slog.Default()
	}
	return &GooseLogger{logger: l.With(slog.String("component", "migrations"))}
}

// Printf logs at info level.
func (g *GooseLogger) Printf(format string, v ...interface{}) {
	g.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf logs at error level. It does not exit; goose reports the failure
// through its returned error.
func (g *GooseLogger) Fatalf(format string, v ...interface{}) {
	g.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
