package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/botstore/internal/domain"
)

// AccountFilter narrows ListAccounts.
type AccountFilter struct {
	AdminsOnly bool
}

// AccountStore defines the interface for account and profile persistence.
// An account and its profile are always read and written together.
type AccountStore interface {
	// Create inserts the account and then its profile, filling in the
	// generated ids and timestamps on both. Callers run it inside a
	// transaction so the pair is atomic.
	// Returns ErrChatIDExists or ErrHandleExists on duplicates.
	// Returns ErrInvalidEntity if the account fails validation.
	Create(ctx context.Context, account *domain.Account) error

	// FindByChatID returns the accounts with the given chat id, ordered by id.
	// The schema allows at most one; an empty slice means none.
	FindByChatID(ctx context.Context, chatID int64) ([]*domain.Account, error)

	// FindByHandle returns the accounts whose profile has the given handle,
	// ordered by id. An empty slice means none.
	FindByHandle(ctx context.Context, handle string) ([]*domain.Account, error)

	// LockByChatID loads the account and locks its rows until the
	// surrounding transaction ends.
	// Returns ErrAccountNotFound if the account does not exist.
	LockByChatID(ctx context.Context, chatID int64) (*domain.Account, error)

	// Update writes the account row, the profile row, or both, as selected
	// by the flags, and refreshes UpdatedAt on whatever it wrote.
	// created_at is never modified.
	// Returns ErrAccountNotFound if the account does not exist.
	Update(ctx context.Context, account *domain.Account, accountChanged, profileChanged bool) error

	// DeleteByChatID removes the account; the schema cascades the delete to
	// its profile, sites and forms. Reports whether a row was removed.
	DeleteByChatID(ctx context.Context, chatID int64) (bool, error)

	// List returns accounts ordered by id.
	List(ctx context.Context, filter AccountFilter) ([]*domain.Account, error)

	// WithTx returns a new AccountStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) AccountStore
}
