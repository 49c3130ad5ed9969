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

// FormStore implements the store.FormStore interface on database/sql.
type FormStore struct {
	db      store.DBTX
	dialect store.Dialect
	logger  *slog.Logger
}

// NewFormStore creates a FormStore over a pool, connection or transaction.
func NewFormStore(db store.DBTX, dialect store.Dialect, logger *slog.Logger) *FormStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FormStore{
		db:      db,
		dialect: dialect,
		logger:  logger,
	}
}

var _ store.FormStore = (*FormStore)(nil)

// WithTx implements store.FormStore.WithTx
func (s *FormStore) WithTx(tx *sql.Tx) store.FormStore {
	return &FormStore{db: tx, dialect: s.dialect, logger: s.logger}
}

// Create implements store.FormStore.Create
func (s *FormStore) Create(ctx context.Context, form *domain.Form) error {
	log := logger.ForComponent(ctx, s.logger, "form_store")

	if err := form.Validate(); err != nil {
		log.Warn("form validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("site_id", form.SiteID))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO forms (site_id, name) VALUES ($1, $2) RETURNING id`,
		form.SiteID, form.Name,
	).Scan(&id)
	if err != nil {
		err = s.dialect.Map(err)
		if errors.Is(err, store.ErrInvalidReference) {
			log.Warn("form references a missing site", slog.Int64("site_id", form.SiteID))
			return fmt.Errorf("%w: %w", store.ErrSiteNotFound, err)
		}
		log.Error("failed to insert form",
			slog.String("error", err.Error()),
			slog.Int64("site_id", form.SiteID))
		return store.NewStoreError("form", "create", "failed to insert form", err)
	}

	created, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}
	*form = *created

	log.Info("form created successfully",
		slog.Int64("form_id", form.ID),
		slog.Int64("site_id", form.SiteID))
	return nil
}

// ListBySite implements store.FormStore.ListBySite
func (s *FormStore) ListBySite(ctx context.Context, siteID int64) ([]*domain.Form, error) {
	rows, err := s.db.QueryContext(ctx, selectForms+` WHERE site_id = $1 ORDER BY id`, siteID)
	if err != nil {
		return nil, store.NewStoreError("form", "list", "query failed", s.dialect.Map(err))
	}
	forms, err := collect(rows, scanForm)
	if err != nil {
		return nil, store.NewStoreError("form", "list", "scan failed", s.dialect.Map(err))
	}
	return forms, nil
}

// Rename implements store.FormStore.Rename
func (s *FormStore) Rename(ctx context.Context, id int64, name string) (*domain.Form, error) {
	log := logger.ForComponent(ctx, s.logger, "form_store")

	if err := domain.ValidateFormName(name); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE forms SET name = $1, updated_at = `+s.dialect.Touch()+` WHERE id = $2`,
		name, id)
	if err != nil {
		err = s.dialect.Map(err)
		log.Error("failed to rename form",
			slog.String("error", err.Error()),
			slog.Int64("form_id", id))
		return nil, store.NewStoreError("form", "update", "failed to rename form", err)
	}
	if err := store.CheckRowsAffected(result, store.ErrFormNotFound); err != nil {
		return nil, err
	}

	log.Info("form renamed", slog.Int64("form_id", id))
	return s.getByID(ctx, id)
}

// Delete implements store.FormStore.Delete
func (s *FormStore) Delete(ctx context.Context, id int64) error {
	log := logger.ForComponent(ctx, s.logger, "form_store")

	result, err := s.db.ExecContext(ctx, `DELETE FROM forms WHERE id = $1`, id)
	if err != nil {
		err = s.dialect.Map(err)
		log.Error("failed to delete form",
			slog.String("error", err.Error()),
			slog.Int64("form_id", id))
		return store.NewStoreError("form", "delete", "failed to delete form", err)
	}
	if err := store.CheckRowsAffected(result, store.ErrFormNotFound); err != nil {
		return err
	}

	log.Info("form deleted successfully", slog.Int64("form_id", id))
	return nil
}

func (s *FormStore) getByID(ctx context.Context, id int64) (*domain.Form, error) {
	form, err := scanForm(s.db.QueryRowContext(ctx, selectForms+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrFormNotFound
		}
		return nil, store.NewStoreError("form", "get", "failed to get form", s.dialect.Map(err))
	}
	return form, nil
}
