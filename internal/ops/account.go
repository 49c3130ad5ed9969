package ops

import (
	"context"
	"log/slog"

	"github.com/phrazzld/botstore/internal/domain"
	"github.com/phrazzld/botstore/internal/platform/logger"
	"github.com/phrazzld/botstore/internal/store"
	"github.com/phrazzld/botstore/internal/uow"
)

// CreateAccountParams describes a new account and its profile.
type CreateAccountParams struct {
	ChatID     int64
	Handle     string
	GivenName  *string
	FamilyName *string
	IsAdmin    bool
}

// CreateAccount persists an account and its profile in one transaction and
// returns the stored account. Duplicate chat ids or handles fail with
// store.ErrChatIDExists or store.ErrHandleExists, leaving nothing behind.
func CreateAccount(p CreateAccountParams) uow.Operation[*domain.Account] {
	return func(ctx context.Context, sessions uow.SessionFactory) (*uow.Result[*domain.Account], error) {
		account, err := domain.NewAccount(p.ChatID, p.Handle, p.GivenName, p.FamilyName, p.IsAdmin)
		if err != nil {
			return nil, invalid(err)
		}

		err = sessions.InTx(ctx, func(ctx context.Context, s *uow.Session) error {
			return s.Accounts.Create(ctx, account)
		})
		if err != nil {
			return nil, err
		}

		return uow.Rows(account), nil
	}
}

// FetchAccountByChatID returns the accounts with the given chat id. The
// schema bounds the result to at most one row.
func FetchAccountByChatID(chatID int64) uow.Operation[*domain.Account] {
	return readAccounts(func(ctx context.Context, s *uow.Session) ([]*domain.Account, error) {
		return s.Accounts.FindByChatID(ctx, chatID)
	})
}

// FetchAccountByHandle returns the accounts whose profile has the given
// handle. The schema bounds the result to at most one row.
func FetchAccountByHandle(handle string) uow.Operation[*domain.Account] {
	return readAccounts(func(ctx context.Context, s *uow.Session) ([]*domain.Account, error) {
		return s.Accounts.FindByHandle(ctx, handle)
	})
}

// ListAccounts returns every account matching filter, ordered by id.
func ListAccounts(filter store.AccountFilter) uow.Operation[*domain.Account] {
	return readAccounts(func(ctx context.Context, s *uow.Session) ([]*domain.Account, error) {
		return s.Accounts.List(ctx, filter)
	})
}

// UpdateAccount merges the non-nil fields of update into the account with
// the given chat id and returns the result. Reading, merging and writing
// happen in one transaction holding the account's row lock, so concurrent
// updates cannot overwrite each other. Fails with store.ErrAccountNotFound
// when no such account exists.
func UpdateAccount(chatID int64, update domain.AccountUpdate) uow.Operation[*domain.Account] {
	return func(ctx context.Context, sessions uow.SessionFactory) (*uow.Result[*domain.Account], error) {
		if err := update.Validate(); err != nil {
			return nil, invalid(err)
		}

		var account *domain.Account
		err := sessions.InTx(ctx, func(ctx context.Context, s *uow.Session) error {
			var err error
			account, err = s.Accounts.LockByChatID(ctx, chatID)
			if err != nil {
				return err
			}

			accountChanged, profileChanged := update.Apply(account)
			if !accountChanged && !profileChanged {
				logger.FromContext(ctx).Debug("update changes nothing",
					slog.Int64("chat_id", chatID))
				return nil
			}

			return s.Accounts.Update(ctx, account, accountChanged, profileChanged)
		})
		if err != nil {
			return nil, err
		}

		return uow.Rows(account), nil
	}
}

// DeleteAccount removes the account with the given chat id together with its
// profile, sites and forms. A missing account is not an error. It produces no
// result.
func DeleteAccount(chatID int64) uow.Operation[*domain.Account] {
	return func(ctx context.Context, sessions uow.SessionFactory) (*uow.Result[*domain.Account], error) {
		err := sessions.InTx(ctx, func(ctx context.Context, s *uow.Session) error {
			_, err := s.Accounts.DeleteByChatID(ctx, chatID)
			return err
		})
		return nil, err
	}
}

func readAccounts(
	find func(ctx context.Context, s *uow.Session) ([]*domain.Account, error),
) uow.Operation[*domain.Account] {
	return func(ctx context.Context, sessions uow.SessionFactory) (*uow.Result[*domain.Account], error) {
		var accounts []*domain.Account
		err := sessions.ReadOnly(ctx, func(ctx context.Context, s *uow.Session) error {
			var err error
			accounts, err = find(ctx, s)
			return err
		})
		if err != nil {
			return nil, err
		}
		return uow.Rows(accounts...), nil
	}
}
