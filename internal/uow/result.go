package uow

import "context"

// Result carries the rows produced by an operation.
type Result[T any] struct {
	Rows []T
}

// Rows wraps rows in a Result.
func Rows[T any](rows ...T) *Result[T] {
	return &Result[T]{Rows: rows}
}

// Operation is one logical database operation. It receives the session
// factory for the current unit of work and returns its rows, or nil when it
// produces no result.
type Operation[T any] func(ctx context.Context, sessions SessionFactory) (*Result[T], error)
