package uow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/phrazzld/botstore/internal/config"
	"github.com/phrazzld/botstore/internal/domain"
	"github.com/phrazzld/botstore/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDispatcher(t *testing.T, mode string) *Dispatcher {
	t.Helper()

	d, err := Open(context.Background(), testdb.SQLiteConfig(t, mode), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// insertAccount is a minimal operation that writes through a session.
func insertAccount(chatID int64, handle string) Operation[*domain.Account] {
	return func(ctx context.Context, sessions SessionFactory) (*Result[*domain.Account], error) {
		account, err := domain.NewAccount(chatID, handle, nil, nil, false)
		if err != nil {
			return nil, err
		}
		err = sessions.InTx(ctx, func(ctx context.Context, s *Session) error {
			return s.Accounts.Create(ctx, account)
		})
		if err != nil {
			return nil, err
		}
		return Rows(account), nil
	}
}

func assertReleased(t *testing.T, d *Dispatcher, calls int64) {
	t.Helper()

	stats := d.Stats()
	assert.Equal(t, calls, stats.Acquired, "acquired")
	assert.Equal(t, calls, stats.Released, "released")
	if d.pool != nil {
		assert.Zero(t, d.pool.DB.Stats().InUse, "no connection may stay checked out")
	}
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := testdb.SQLiteConfig(t, config.ModeShared)
	cfg.Dispatch.Mode = "pooled"

	_, err := Open(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	cfg = testdb.SQLiteConfig(t, config.ModePerCall)
	cfg.Database.Path = ""
	_, err = Open(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestRunReleasesSession(t *testing.T) {
	t.Parallel()

	for _, mode := range []string{config.ModeShared, config.ModePerCall} {
		mode := mode
		t.Run(mode, func(t *testing.T) {
			t.Parallel()
			d := openDispatcher(t, mode)
			ctx := context.Background()

			t.Run("success", func(t *testing.T) {
				result, err := Run(ctx, d, insertAccount(100, "alice"))
				require.NoError(t, err)
				require.NotNil(t, result)
				require.Len(t, result.Rows, 1)
				assert.NotZero(t, result.Rows[0].ID)
				assertReleased(t, d, 1)
			})

			t.Run("failure", func(t *testing.T) {
				boom := errors.New("boom")
				_, err := Run(ctx, d, func(ctx context.Context, _ SessionFactory) (*Result[int], error) {
					return nil, boom
				})
				assert.Same(t, boom, err, "errors propagate unchanged")
				assertReleased(t, d, 2)
			})

			t.Run("panic", func(t *testing.T) {
				assert.PanicsWithValue(t, "kaboom", func() {
					_, _ = Run(ctx, d, func(ctx context.Context, _ SessionFactory) (*Result[int], error) {
						panic("kaboom")
					})
				})
				assertReleased(t, d, 3)
			})

			t.Run("usable after panic", func(t *testing.T) {
				_, err := Run(ctx, d, insertAccount(101, "bob"))
				require.NoError(t, err)
				assertReleased(t, d, 4)
			})
		})
	}
}

func TestRunNilResult(t *testing.T) {
	t.Parallel()

	d := openDispatcher(t, config.ModeShared)
	result, err := Run(context.Background(), d, func(ctx context.Context, _ SessionFactory) (*Result[string], error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestRunRollsBackFailedTransaction(t *testing.T) {
	t.Parallel()

	d := openDispatcher(t, config.ModeShared)
	ctx := context.Background()
	injected := errors.New("injected after insert")

	_, err := Run(ctx, d, func(ctx context.Context, sessions SessionFactory) (*Result[int], error) {
		return nil, sessions.InTx(ctx, func(ctx context.Context, s *Session) error {
			account, err := domain.NewAccount(7, "rollback", nil, nil, false)
			if err != nil {
				return err
			}
			if err := s.Accounts.Create(ctx, account); err != nil {
				return err
			}
			return injected
		})
	})
	assert.ErrorIs(t, err, injected)
	assert.Equal(t, 0, testdb.CountRows(t, d.pool.DB, "accounts"))
	assert.Equal(t, 0, testdb.CountRows(t, d.pool.DB, "profiles"))
}

func TestPerCallModeEnsuresSchemaEachCall(t *testing.T) {
	t.Parallel()

	d := openDispatcher(t, config.ModePerCall)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		_, err := Run(ctx, d, insertAccount(i, "user"+string(rune('a'+i))))
		require.NoError(t, err)
	}

	accounts, err := GetMany(ctx, d, func(ctx context.Context, sessions SessionFactory) (*Result[*domain.Account], error) {
		var rows []*domain.Account
		err := sessions.ReadOnly(ctx, func(ctx context.Context, s *Session) error {
			var err error
			rows, err = s.Accounts.List(ctx, storeFilterAll)
			return err
		})
		return Rows(rows...), err
	})
	require.NoError(t, err)
	assert.Len(t, accounts, 3)
	assertReleased(t, d, 4)
	assert.Nil(t, d.pool)
}

// TestRunLogsCarryComponentAndUnitOfWork verifies that store and dispatcher
// log lines of one unit of work share a uow_id and keep their own component.
func TestRunLogsCarryComponentAndUnitOfWork(t *testing.T) {
	t.Parallel()

	for _, mode := range []string{config.ModeShared, config.ModePerCall} {
		mode := mode
		t.Run(mode, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			d, err := Open(context.Background(), testdb.SQLiteConfig(t, mode), log)
			require.NoError(t, err)
			t.Cleanup(func() { _ = d.Close() })

			_, err = Run(context.Background(), d, insertAccount(300, "logged"))
			require.NoError(t, err)

			lines := map[string]map[string]any{}
			for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
				assert.LessOrEqual(t, strings.Count(line, `"component"`), 1, line)
				var entry map[string]any
				require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
				lines[entry["msg"].(string)] = entry
			}

			created, ok := lines["account created successfully"]
			require.True(t, ok, buf.String())
			completed, ok := lines["unit of work completed"]
			require.True(t, ok, buf.String())

			assert.Equal(t, "account_store", created["component"])
			assert.Equal(t, "dispatcher", completed["component"])
			assert.NotEmpty(t, created["uow_id"])
			assert.Equal(t, completed["uow_id"], created["uow_id"])
		})
	}
}
