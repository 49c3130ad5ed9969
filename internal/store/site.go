package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/botstore/internal/domain"
)

// SiteStore defines the interface for site persistence.
type SiteStore interface {
	// Create saves a new site, filling in its id and timestamps.
	// Returns ErrAccountNotFound if the owning account does not exist.
	Create(ctx context.Context, site *domain.Site) error

	// GetByID retrieves a site by id.
	// Returns ErrSiteNotFound if the site does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Site, error)

	// ListByAccount returns the sites of an account, ordered by id.
	ListByAccount(ctx context.Context, accountID int64) ([]*domain.Site, error)

	// UpdateDomain replaces the domain of a site. A nil domain clears it.
	// Returns ErrSiteNotFound if the site does not exist.
	UpdateDomain(ctx context.Context, id int64, domainName *string) (*domain.Site, error)

	// Delete removes a site and, by cascade, its forms.
	// Returns ErrSiteNotFound if the site does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new SiteStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) SiteStore
}
