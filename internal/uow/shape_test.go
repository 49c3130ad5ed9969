package uow

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/phrazzld/botstore/internal/config"
	"github.com/phrazzld/botstore/internal/store"
	"github.com/phrazzld/botstore/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storeFilterAll = store.AccountFilter{}

func rowsOp(rows ...string) Operation[string] {
	return func(ctx context.Context, _ SessionFactory) (*Result[string], error) {
		return Rows(rows...), nil
	}
}

func nilOp(ctx context.Context, _ SessionFactory) (*Result[string], error) {
	return nil, nil
}

func TestGetOne(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&logs, nil))
	d, err := Open(context.Background(), testdb.SQLiteConfig(t, config.ModeShared), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	ctx := context.Background()

	t.Run("zero rows yields the not-found sentinel", func(t *testing.T) {
		v, ok, err := GetOne(ctx, d, rowsOp())
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)

		_, ok, err = GetOne(ctx, d, nilOp)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("one row", func(t *testing.T) {
		v, ok, err := GetOne(ctx, d, rowsOp("only"))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "only", v)
	})

	t.Run("two rows returns the first and warns", func(t *testing.T) {
		logs.Reset()
		v, ok, err := GetOne(ctx, d, rowsOp("first", "second"))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "first", v)
		assert.Contains(t, logs.String(), "expected at most one row")
	})

	t.Run("errors propagate", func(t *testing.T) {
		boom := errors.New("boom")
		_, ok, err := GetOne(ctx, d, func(ctx context.Context, _ SessionFactory) (*Result[string], error) {
			return nil, boom
		})
		assert.Same(t, boom, err)
		assert.False(t, ok)
	})
}

func TestGetMany(t *testing.T) {
	t.Parallel()

	d := openDispatcher(t, config.ModeShared)
	ctx := context.Background()

	rows, err := GetMany(ctx, d, rowsOp())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	rows, err = GetMany(ctx, d, nilOp)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	rows, err = GetMany(ctx, d, rowsOp("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, rows)
}

func TestDo(t *testing.T) {
	t.Parallel()

	d := openDispatcher(t, config.ModeShared)
	ctx := context.Background()

	assert.NoError(t, Do(ctx, d, rowsOp("ignored")))
	assert.NoError(t, Do(ctx, d, nilOp))

	boom := errors.New("boom")
	err := Do(ctx, d, func(ctx context.Context, _ SessionFactory) (*Result[string], error) {
		return nil, boom
	})
	assert.Same(t, boom, err)
}
