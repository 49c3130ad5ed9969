package uow

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/botstore/internal/platform/sqlstore"
	"github.com/phrazzld/botstore/internal/store"
)

// Session groups the stores bound to one transaction.
type Session struct {
	Accounts store.AccountStore
	Sites    store.SiteStore
	Forms    store.FormStore
}

// SessionFactory opens transactional sessions on the unit of work's connection.
type SessionFactory interface {
	// InTx runs fn in a read-write transaction, committing when fn returns nil.
	InTx(ctx context.Context, fn func(ctx context.Context, s *Session) error) error

	// ReadOnly runs fn in a read-only transaction.
	ReadOnly(ctx context.Context, fn func(ctx context.Context, s *Session) error) error
}

// sessionFactory binds stores to transactions begun on one connection or pool.
type sessionFactory struct {
	db       store.TxBeginner
	accounts *sqlstore.AccountStore
	sites    *sqlstore.SiteStore
	forms    *sqlstore.FormStore
}

func newSessionFactory(db interface {
	store.DBTX
	store.TxBeginner
}, dialect store.Dialect, logger *slog.Logger) *sessionFactory {
	return &sessionFactory{
		db:       db,
		accounts: sqlstore.NewAccountStore(db, dialect, logger),
		sites:    sqlstore.NewSiteStore(db, dialect, logger),
		forms:    sqlstore.NewFormStore(db, dialect, logger),
	}
}

var _ SessionFactory = (*sessionFactory)(nil)

func (f *sessionFactory) InTx(ctx context.Context, fn func(ctx context.Context, s *Session) error) error {
	return f.run(ctx, nil, fn)
}

func (f *sessionFactory) ReadOnly(ctx context.Context, fn func(ctx context.Context, s *Session) error) error {
	return f.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (f *sessionFactory) run(
	ctx context.Context,
	opts *sql.TxOptions,
	fn func(ctx context.Context, s *Session) error,
) error {
	return store.RunInTransactionWithOptions(ctx, f.db, opts, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, &Session{
			Accounts: f.accounts.WithTx(tx),
			Sites:    f.sites.WithTx(tx),
			Forms:    f.forms.WithTx(tx),
		})
	})
}
