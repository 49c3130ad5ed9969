package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/botstore/internal/domain"
	"github.com/phrazzld/botstore/internal/platform/logger"
	"github.com/phrazzld/botstore/internal/store"
)

// SiteStore implements the store.SiteStore interface on database/sql.
type SiteStore struct {
	db      store.DBTX
	dialect store.Dialect
	logger  *slog.Logger
}

// NewSiteStore creates a SiteStore over a pool, connection or transaction.
func NewSiteStore(db store.DBTX, dialect store.Dialect, logger *slog.Logger) *SiteStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SiteStore{
		db:      db,
		dialect: dialect,
		logger:  logger,
	}
}

var _ store.SiteStore = (*SiteStore)(nil)

// WithTx implements store.SiteStore.WithTx
func (s *SiteStore) WithTx(tx *sql.Tx) store.SiteStore {
	return &SiteStore{db: tx, dialect: s.dialect, logger: s.logger}
}

// Create implements store.SiteStore.Create
func (s *SiteStore) Create(ctx context.Context, site *domain.Site) error {
	log := logger.ForComponent(ctx, s.logger, "site_store")

	if err := site.Validate(); err != nil {
		log.Warn("site validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("account_id", site.AccountID))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO sites (account_id, domain) VALUES ($1, $2) RETURNING id`,
		site.AccountID, site.Domain,
	).Scan(&id)
	if err != nil {
		err = s.dialect.Map(err)
		if errors.Is(err, store.ErrInvalidReference) {
			log.Warn("site references a missing account",
				slog.Int64("account_id", site.AccountID))
			return fmt.Errorf("%w: %w", store.ErrAccountNotFound, err)
		}
		log.Error("failed to insert site",
			slog.String("error", err.Error()),
			slog.Int64("account_id", site.AccountID))
		return store.NewStoreError("site", "create", "failed to insert site", err)
	}

	created, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	*site = *created

	log.Info("site created successfully",
		slog.Int64("site_id", site.ID),
		slog.Int64("account_id", site.AccountID))
	return nil
}

// GetByID implements store.SiteStore.GetByID
func (s *SiteStore) GetByID(ctx context.Context, id int64) (*domain.Site, error) {
	site, err := scanSite(s.db.QueryRowContext(ctx, selectSites+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSiteNotFound
		}
		return nil, store.NewStoreError("site", "get", "failed to get site", s.dialect.Map(err))
	}
	return site, nil
}

// ListByAccount implements store.SiteStore.ListByAccount
func (s *SiteStore) ListByAccount(ctx context.Context, accountID int64) ([]*domain.Site, error) {
	rows, err := s.db.QueryContext(ctx, selectSites+` WHERE account_id = $1 ORDER BY id`, accountID)
	if err != nil {
		return nil, store.NewStoreError("site", "list", "query failed", s.dialect.Map(err))
	}
	sites, err := collect(rows, scanSite)
	if err != nil {
		return nil, store.NewStoreError("site", "list", "scan failed", s.dialect.Map(err))
	}
	return sites, nil
}

// UpdateDomain implements store.SiteStore.UpdateDomain
func (s *SiteStore) UpdateDomain(ctx context.Context, id int64, domainName *string) (*domain.Site, error) {
	log := logger.ForComponent(ctx, s.logger, "site_store")

	if err := domain.ValidateSiteDomain(domainName); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE sites SET domain = $1, updated_at = `+s.dialect.Touch()+` WHERE id = $2`,
		domainName, id)
	if err != nil {
		err = s.dialect.Map(err)
		log.Error("failed to update site domain",
			slog.String("error", err.Error()),
			slog.Int64("site_id", id))
		return nil, store.NewStoreError("site", "update", "failed to update domain", err)
	}
	if err := store.CheckRowsAffected(result, store.ErrSiteNotFound); err != nil {
		return nil, err
	}

	log.Info("site domain updated", slog.Int64("site_id", id))
	return s.GetByID(ctx, id)
}

// Delete implements store.SiteStore.Delete
func (s *SiteStore) Delete(ctx context.Context, id int64) error {
	log := logger.ForComponent(ctx, s.logger, "site_store")

	result, err := s.db.ExecContext(ctx, `DELETE FROM sites WHERE id = $1`, id)
	if err != nil {
		err = s.dialect.Map(err)
		log.Error("failed to delete site",
			slog.String("error", err.Error()),
			slog.Int64("site_id", id))
		return store.NewStoreError("site", "delete", "failed to delete site", err)
	}
	if err := store.CheckRowsAffected(result, store.ErrSiteNotFound); err != nil {
		return err
	}

	log.Info("site deleted successfully", slog.Int64("site_id", id))
	return nil
}
