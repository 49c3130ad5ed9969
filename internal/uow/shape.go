package uow

import (
	"context"
	"log/slog"

	"github.com/phrazzld/botstore/internal/platform/logger"
)

// Do runs op for its side effects and discards any rows.
func Do[T any](ctx context.Context, d *Dispatcher, op Operation[T]) error {
	_, err := Run(ctx, d, op)
	return err
}

// GetMany runs op and returns all of its rows. The slice is empty, never
// nil, when op matched nothing.
func GetMany[T any](ctx context.Context, d *Dispatcher, op Operation[T]) ([]T, error) {
	result, err := Run(ctx, d, op)
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Rows) == 0 {
		return []T{}, nil
	}
	return result.Rows, nil
}

// GetOne runs op and returns its first row. The boolean is false, with the
// zero value, when op matched nothing. More than one row is not an error:
// operations order rows by id, so the lowest id wins, and a warning is logged.
func GetOne[T any](ctx context.Context, d *Dispatcher, op Operation[T]) (T, bool, error) {
	var zero T

	result, err := Run(ctx, d, op)
	if err != nil {
		return zero, false, err
	}
	if result == nil || len(result.Rows) == 0 {
		return zero, false, nil
	}

	if n := len(result.Rows); n > 1 {
		logger.FromContextOrDefault(ctx, d.logger).Warn("expected at most one row, using the first",
			slog.Int("rows", n))
	}
	return result.Rows[0], true, nil
}
