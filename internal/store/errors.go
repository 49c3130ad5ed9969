package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// Storage error taxonomy. Every error returned by a store or an operation
// that originates in the database wraps exactly one of the umbrella
// sentinels ErrConstraintViolation, ErrNotFound, ErrTransient or
// ErrTransactionFailed.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrConstraintViolation is returned when a write violates a uniqueness,
	// referential or integrity rule of the schema.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique value.
	ErrDuplicate = fmt.Errorf("%w: entity already exists", ErrConstraintViolation)

	// ErrInvalidReference is returned when a write points at a parent row
	// that does not exist (foreign key violation).
	ErrInvalidReference = fmt.Errorf("%w: referenced entity does not exist", ErrConstraintViolation)

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored, or is rejected by a NOT NULL or CHECK constraint.
	ErrInvalidEntity = fmt.Errorf("%w: invalid entity", ErrConstraintViolation)

	// ErrTransient is returned for failures that may succeed on a later
	// attempt: lost connections, timeouts, serialization failures and
	// busy databases. Nothing in this module retries automatically.
	ErrTransient = errors.New("transient storage error")

	// ErrTransactionFailed is returned when a transaction cannot be started
	// or committed.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrAccountNotFound indicates that the requested account does not exist in the store.
	ErrAccountNotFound = fmt.Errorf("%w: account", ErrNotFound)

	// ErrSiteNotFound indicates that the requested site does not exist in the store.
	ErrSiteNotFound = fmt.Errorf("%w: site", ErrNotFound)

	// ErrFormNotFound indicates that the requested form does not exist in the store.
	ErrFormNotFound = fmt.Errorf("%w: form", ErrNotFound)

	// ErrChatIDExists indicates that an account with the given chat id already exists.
	ErrChatIDExists = fmt.Errorf("%w: chat id", ErrDuplicate)

	// ErrHandleExists indicates that a profile with the given handle already exists.
	ErrHandleExists = fmt.Errorf("%w: handle", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsConstraintViolation checks if the error was caused by a schema rule.
func IsConstraintViolation(err error) bool {
	return errors.Is(err, ErrConstraintViolation)
}

// IsTransientError checks if the error may go away on retry.
func IsTransientError(err error) bool {
	return errors.Is(err, ErrTransient)
}

// CheckRowsAffected examines the number of rows affected by a database operation.
// If no rows were affected, it returns notFound.
func CheckRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return fmt.Errorf("nil result provided to CheckRowsAffected")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if notFound == nil {
			return ErrNotFound
		}
		return notFound
	}

	return nil
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "account", "site")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
