package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/botstore/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "duplicate chat id",
			err:  &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "accounts_chat_id_key"},
			want: store.ErrChatIDExists,
		},
		{
			name: "duplicate handle",
			err:  &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "profiles_handle_key"},
			want: store.ErrHandleExists,
		},
		{
			name: "duplicate on unnamed constraint",
			err:  &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "profiles_account_id_key"},
			want: store.ErrDuplicate,
		},
		{
			name: "foreign key",
			err:  &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "forms_site_id_fkey"},
			want: store.ErrInvalidReference,
		},
		{
			name: "check",
			err:  &pgconn.PgError{Code: checkViolationCode, ConstraintName: "forms_name_check"},
			want: store.ErrInvalidEntity,
		},
		{
			name: "not null",
			err:  &pgconn.PgError{Code: notNullViolationCode, ColumnName: "handle"},
			want: store.ErrInvalidEntity,
		},
		{
			name: "serialization failure",
			err:  &pgconn.PgError{Code: serializationFailureCode},
			want: store.ErrTransient,
		},
		{
			name: "connection exception class",
			err:  &pgconn.PgError{Code: "08006"},
			want: store.ErrTransient,
		},
		{
			name: "admin shutdown",
			err:  fmt.Errorf("query: %w", &pgconn.PgError{Code: adminShutdownCode}),
			want: store.ErrTransient,
		},
		{
			name: "deadline exceeded",
			err:  fmt.Errorf("ping: %w", context.DeadlineExceeded),
			want: store.ErrTransient,
		},
		{
			name: "bad connection",
			err:  driver.ErrBadConn,
			want: store.ErrTransient,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := MapError(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.Contains(t, got.Error(), tt.err.Error(), "original error text is kept")
		})
	}
}

func TestMapErrorPassThrough(t *testing.T) {
	t.Parallel()

	assert.NoError(t, MapError(nil))

	plain := errors.New("syntax error somewhere")
	assert.Equal(t, plain, MapError(plain))

	syntax := &pgconn.PgError{Code: "42601"}
	assert.Equal(t, error(syntax), MapError(syntax))
	assert.False(t, store.IsConstraintViolation(MapError(syntax)))
	assert.False(t, store.IsTransientError(MapError(context.Canceled)))
}

func TestDialect(t *testing.T) {
	t.Parallel()

	d := Dialect()
	assert.Equal(t, "postgres", d.Name)
	assert.Equal(t, DriverName, d.DriverName)
	assert.Equal(t, " FOR UPDATE", d.LockClause)
	assert.Equal(t, "CURRENT_TIMESTAMP", d.Touch())

	names, err := fs.Glob(d.Migrations, "*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"00001_init.sql"}, names)

	body, err := fs.ReadFile(d.Migrations, "00001_init.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "-- +goose Up")
	assert.Contains(t, string(body), "ON DELETE CASCADE")
}
