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

// AccountStore implements the store.AccountStore interface on database/sql.
type AccountStore struct {
	db      store.DBTX
	dialect store.Dialect
	logger  *slog.Logger
}

// NewAccountStore creates an AccountStore over a pool, connection or transaction.
// If logger is nil, a default logger will be used.
func NewAccountStore(db store.DBTX, dialect store.Dialect, logger *slog.Logger) *AccountStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &AccountStore{
		db:      db,
		dialect: dialect,
		logger:  logger,
	}
}

// Ensure AccountStore implements store.AccountStore interface
var _ store.AccountStore = (*AccountStore)(nil)

// WithTx implements store.AccountStore.WithTx
func (s *AccountStore) WithTx(tx *sql.Tx) store.AccountStore {
	return &AccountStore{
		db:      tx,
		dialect: s.dialect,
		logger:  s.logger,
	}
}

// Create implements store.AccountStore.Create
// The account row is inserted first so the profile can reference it.
func (s *AccountStore) Create(ctx context.Context, account *domain.Account) error {
	log := logger.ForComponent(ctx, s.logger, "account_store")

	if err := account.Validate(); err != nil {
		log.Warn("account validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("chat_id", account.ChatID))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	var accountID int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO accounts (chat_id, is_admin) VALUES ($1, $2) RETURNING id`,
		account.ChatID, account.IsAdmin,
	).Scan(&accountID)
	if err != nil {
		err = s.dialect.Map(err)
		log.Warn("failed to insert account",
			slog.String("error", err.Error()),
			slog.Int64("chat_id", account.ChatID))
		return store.NewStoreError("account", "create", "failed to insert account", err)
	}

	p := account.Profile
	var profileID int64
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO profiles (account_id, handle, given_name, family_name)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		accountID, p.Handle, p.GivenName, p.FamilyName,
	).Scan(&profileID)
	if err != nil {
		err = s.dialect.Map(err)
		log.Warn("failed to insert profile",
			slog.String("error", err.Error()),
			slog.Int64("account_id", accountID),
			slog.String("handle", p.Handle))
		return store.NewStoreError("profile", "create", "failed to insert profile", err)
	}

	created, err := s.getByID(ctx, accountID)
	if err != nil {
		return err
	}
	*account = *created

	log.Info("account created successfully",
		slog.Int64("account_id", account.ID),
		slog.Int64("profile_id", profileID),
		slog.Int64("chat_id", account.ChatID))
	return nil
}

// FindByChatID implements store.AccountStore.FindByChatID
func (s *AccountStore) FindByChatID(ctx context.Context, chatID int64) ([]*domain.Account, error) {
	log := logger.ForComponent(ctx, s.logger, "account_store")
	log.Debug("finding accounts by chat ID", slog.Int64("chat_id", chatID))

	return s.query(ctx, "find_by_chat_id",
		selectAccounts+` WHERE a.chat_id = $1 ORDER BY a.id`, chatID)
}

// FindByHandle implements store.AccountStore.FindByHandle
func (s *AccountStore) FindByHandle(ctx context.Context, handle string) ([]*domain.Account, error) {
	log := logger.ForComponent(ctx, s.logger, "account_store")
	log.Debug("finding accounts by handle", slog.String("handle", handle))

	return s.query(ctx, "find_by_handle",
		selectAccounts+` WHERE p.handle = $1 ORDER BY a.id`, handle)
}

// List implements store.AccountStore.List
func (s *AccountStore) List(ctx context.Context, filter store.AccountFilter) ([]*domain.Account, error) {
	query := selectAccounts
	if filter.AdminsOnly {
		query += ` WHERE a.is_admin`
	}
	return s.query(ctx, "list", query+` ORDER BY a.id`)
}

// LockByChatID implements store.AccountStore.LockByChatID
func (s *AccountStore) LockByChatID(ctx context.Context, chatID int64) (*domain.Account, error) {
	log := logger.ForComponent(ctx, s.logger, "account_store")

	account, err := scanAccount(s.db.QueryRowContext(ctx,
		selectAccounts+` WHERE a.chat_id = $1`+s.dialect.LockClause, chatID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("account not found", slog.Int64("chat_id", chatID))
			return nil, store.ErrAccountNotFound
		}
		err = s.dialect.Map(err)
		log.Error("failed to lock account",
			slog.String("error", err.Error()),
			slog.Int64("chat_id", chatID))
		return nil, store.NewStoreError("account", "lock", "failed to load account", err)
	}

	return account, nil
}

// Update implements store.AccountStore.Update
func (s *AccountStore) Update(
	ctx context.Context,
	account *domain.Account,
	accountChanged, profileChanged bool,
) error {
	log := logger.ForComponent(ctx, s.logger, "account_store")

	if err := account.Validate(); err != nil {
		log.Warn("account validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("account_id", account.ID))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	if accountChanged {
		result, err := s.db.ExecContext(ctx,
			`UPDATE accounts SET chat_id = $1, is_admin = $2, updated_at = `+s.dialect.Touch()+`
			WHERE id = $3`,
			account.ChatID, account.IsAdmin, account.ID)
		if err != nil {
			err = s.dialect.Map(err)
			log.Warn("failed to update account",
				slog.String("error", err.Error()),
				slog.Int64("account_id", account.ID))
			return store.NewStoreError("account", "update", "failed to update account", err)
		}
		if err := store.CheckRowsAffected(result, store.ErrAccountNotFound); err != nil {
			return err
		}
	}

	if profileChanged {
		p := account.Profile
		result, err := s.db.ExecContext(ctx,
			`UPDATE profiles SET handle = $1, given_name = $2, family_name = $3,
			updated_at = `+s.dialect.Touch()+`
			WHERE account_id = $4`,
			p.Handle, p.GivenName, p.FamilyName, account.ID)
		if err != nil {
			err = s.dialect.Map(err)
			log.Warn("failed to update profile",
				slog.String("error", err.Error()),
				slog.Int64("account_id", account.ID))
			return store.NewStoreError("profile", "update", "failed to update profile", err)
		}
		if err := store.CheckRowsAffected(result, store.ErrAccountNotFound); err != nil {
			return err
		}
	}

	if !accountChanged && !profileChanged {
		return nil
	}

	updated, err := s.getByID(ctx, account.ID)
	if err != nil {
		return err
	}
	*account = *updated

	log.Info("account updated successfully",
		slog.Int64("account_id", account.ID),
		slog.Bool("account_changed", accountChanged),
		slog.Bool("profile_changed", profileChanged))
	return nil
}

// DeleteByChatID implements store.AccountStore.DeleteByChatID
func (s *AccountStore) DeleteByChatID(ctx context.Context, chatID int64) (bool, error) {
	log := logger.ForComponent(ctx, s.logger, "account_store")

	result, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE chat_id = $1`, chatID)
	if err != nil {
		err = s.dialect.Map(err)
		log.Error("failed to delete account",
			slog.String("error", err.Error()),
			slog.Int64("chat_id", chatID))
		return false, store.NewStoreError("account", "delete", "failed to delete account", err)
	}

	if err := store.CheckRowsAffected(result, store.ErrAccountNotFound); err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			log.Debug("no account to delete", slog.Int64("chat_id", chatID))
			return false, nil
		}
		return false, err
	}

	log.Info("account deleted successfully", slog.Int64("chat_id", chatID))
	return true, nil
}

func (s *AccountStore) getByID(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := scanAccount(s.db.QueryRowContext(ctx, selectAccounts+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAccountNotFound
		}
		return nil, store.NewStoreError("account", "get", "failed to reload account", s.dialect.Map(err))
	}
	return account, nil
}

func (s *AccountStore) query(ctx context.Context, op, query string, args ...any) ([]*domain.Account, error) {
	log := logger.ForComponent(ctx, s.logger, "account_store")

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		err = s.dialect.Map(err)
		log.Error("failed to query accounts",
			slog.String("error", err.Error()),
			slog.String("operation", op))
		return nil, store.NewStoreError("account", op, "query failed", err)
	}

	accounts, err := collect(rows, scanAccount)
	if err != nil {
		err = s.dialect.Map(err)
		log.Error("failed to scan accounts",
			slog.String("error", err.Error()),
			slog.String("operation", op))
		return nil, store.NewStoreError("account", op, "scan failed", err)
	}

	return accounts, nil
}
