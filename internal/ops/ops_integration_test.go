//go:build integration

package ops_test

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/botstore/internal/config"
	"github.com/phrazzld/botstore/internal/domain"
	"github.com/phrazzld/botstore/internal/ops"
	"github.com/phrazzld/botstore/internal/store"
	"github.com/phrazzld/botstore/internal/testdb"
	"github.com/phrazzld/botstore/internal/uow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openPostgres opens a dispatcher on the integration database. Every test
// works on its own random chat ids and deletes them afterwards.
func openPostgres(t *testing.T, mode string) *uow.Dispatcher {
	t.Helper()

	d, err := uow.Open(context.Background(), testdb.PostgresConfig(t, mode), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func uniqueChatID() int64 {
	return rand.Int64N(1<<40) + 1
}

func uniqueHandle() string {
	return "it_" + uuid.NewString()[:8]
}

func cleanupAccount(t *testing.T, d *uow.Dispatcher, chatID int64) {
	t.Cleanup(func() {
		if err := uow.Do(context.Background(), d, ops.DeleteAccount(chatID)); err != nil {
			t.Logf("warning: failed to clean up account %d: %v", chatID, err)
		}
	})
}

func TestPostgresAccountLifecycle(t *testing.T) {
	for _, mode := range []string{config.ModeShared, config.ModePerCall} {
		t.Run(mode, func(t *testing.T) {
			d := openPostgres(t, mode)
			ctx := context.Background()
			chatID := uniqueChatID()
			handle := uniqueHandle()
			cleanupAccount(t, d, chatID)

			created, ok, err := uow.GetOne(ctx, d, ops.CreateAccount(ops.CreateAccountParams{
				ChatID:    chatID,
				Handle:    handle,
				GivenName: strPtr("B"),
			}))
			require.NoError(t, err)
			require.True(t, ok)

			err = uow.Do(ctx, d, ops.CreateAccount(ops.CreateAccountParams{ChatID: chatID, Handle: uniqueHandle()}))
			assert.ErrorIs(t, err, store.ErrChatIDExists)

			otherChat := uniqueChatID()
			err = uow.Do(ctx, d, ops.CreateAccount(ops.CreateAccountParams{ChatID: otherChat, Handle: handle}))
			assert.ErrorIs(t, err, store.ErrHandleExists)
			_, ok, err = uow.GetOne(ctx, d, ops.FetchAccountByChatID(otherChat))
			require.NoError(t, err)
			assert.False(t, ok, "failed create leaves no account row")

			updated, _, err := uow.GetOne(ctx, d, ops.UpdateAccount(chatID, domain.AccountUpdate{
				Profile: domain.ProfileFields{FamilyName: strPtr("C")},
			}))
			require.NoError(t, err)
			assert.Equal(t, handle, updated.Profile.Handle)
			assert.Equal(t, "B", *updated.Profile.GivenName)
			assert.Equal(t, "C", *updated.Profile.FamilyName)
			assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

			site, _, err := uow.GetOne(ctx, d, ops.AddSite(chatID, strPtr("example.com")))
			require.NoError(t, err)
			require.NoError(t, uow.Do(ctx, d, ops.AddForm(site.ID, "signup")))
			require.NoError(t, uow.Do(ctx, d, ops.AddForm(site.ID, "contact")))

			require.NoError(t, uow.Do(ctx, d, ops.DeleteAccount(chatID)))
			_, err = uow.GetMany(ctx, d, ops.ListForms(site.ID))
			assert.ErrorIs(t, err, store.ErrSiteNotFound, "site and forms are removed with the account")
		})
	}
}

func TestPostgresConcurrentUpdatesHoldRowLock(t *testing.T) {
	d := openPostgres(t, config.ModeShared)
	ctx := context.Background()
	chatID := uniqueChatID()
	cleanupAccount(t, d, chatID)

	require.NoError(t, uow.Do(ctx, d, ops.CreateAccount(ops.CreateAccountParams{
		ChatID: chatID,
		Handle: uniqueHandle(),
	})))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, u := range []domain.AccountUpdate{
		{Profile: domain.ProfileFields{GivenName: strPtr("Given")}},
		{Profile: domain.ProfileFields{FamilyName: strPtr("Family")}},
	} {
		wg.Add(1)
		go func(i int, u domain.AccountUpdate) {
			defer wg.Done()
			errs[i] = uow.Do(ctx, d, ops.UpdateAccount(chatID, u))
		}(i, u)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	final, _, err := uow.GetOne(ctx, d, ops.FetchAccountByChatID(chatID))
	require.NoError(t, err)
	assert.Equal(t, "Given", *final.Profile.GivenName)
	assert.Equal(t, "Family", *final.Profile.FamilyName)
}
