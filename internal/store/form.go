package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/botstore/internal/domain"
)

// FormStore defines the interface for form persistence.
type FormStore interface {
	// Create saves a new form, filling in its id and timestamps.
	// Returns ErrSiteNotFound if the owning site does not exist.
	Create(ctx context.Context, form *domain.Form) error

	// ListBySite returns the forms of a site, ordered by id.
	ListBySite(ctx context.Context, siteID int64) ([]*domain.Form, error)

	// Rename changes the name of a form.
	// Returns ErrFormNotFound if the form does not exist.
	Rename(ctx context.Context, id int64, name string) (*domain.Form, error)

	// Delete removes a form.
	// Returns ErrFormNotFound if the form does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new FormStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) FormStore
}
