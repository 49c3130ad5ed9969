package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/phrazzld/botstore/internal/config"
	"github.com/phrazzld/botstore/internal/domain"
	"github.com/phrazzld/botstore/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// setupEnv points the command at a fresh SQLite database.
func setupEnv(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "botstore.db")
	t.Setenv("BOTSTORE_DATABASE_DRIVER", "sqlite")
	t.Setenv("BOTSTORE_DATABASE_PATH", path)
	t.Setenv("BOTSTORE_LOG_LEVEL", "error")
	t.Setenv("BOTSTORE_LOG_FORMAT", "text")
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCommand(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()

	out, err := execute(t, args...)
	require.NoError(t, err, "botstore %v", args)
	return out
}

func decode[T any](t *testing.T, out string) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestVersionCommand(t *testing.T) {
	out := mustExecute(t, "version")
	assert.Contains(t, out, "botstore dev")
}

func TestAccountCommands(t *testing.T) {
	setupEnv(t)

	created := decode[domain.Account](t, mustExecute(t,
		"account", "create", "--chat-id=-1001", "--handle", "@alice", "--given-name", "Alice"))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "alice", created.Profile.Handle, "leading @ is dropped")
	assert.Equal(t, "Alice", *created.Profile.GivenName)
	assert.Nil(t, created.Profile.FamilyName)

	_, err := execute(t, "account", "create", "--chat-id=-1001", "--handle", "other")
	assert.ErrorIs(t, err, store.ErrChatIDExists)
	assert.Equal(t, exitDuplicate, exitCode(err))

	byHandle := decode[domain.Account](t, mustExecute(t, "account", "get", "--handle", "alice"))
	assert.Equal(t, created.ID, byHandle.ID)

	updated := decode[domain.Account](t, mustExecute(t,
		"account", "update", "--chat-id=-1001", "--family-name", "Liddell", "--admin"))
	assert.Equal(t, "alice", updated.Profile.Handle)
	assert.Equal(t, "Alice", *updated.Profile.GivenName)
	assert.Equal(t, "Liddell", *updated.Profile.FamilyName)
	assert.True(t, updated.IsAdmin)

	mustExecute(t, "account", "create", "--chat-id", "7", "--handle", "bob")
	all := decode[[]domain.Account](t, mustExecute(t, "account", "list"))
	require.Len(t, all, 2)
	admins := decode[[]domain.Account](t, mustExecute(t, "account", "list", "--admins"))
	require.Len(t, admins, 1)
	assert.Equal(t, int64(-1001), admins[0].ChatID)

	mustExecute(t, "account", "delete", "--chat-id=-1001")
	mustExecute(t, "account", "delete", "--chat-id=-1001")

	_, err = execute(t, "account", "get", "--chat-id=-1001")
	assert.ErrorIs(t, err, store.ErrAccountNotFound)
	assert.Equal(t, exitNotFound, exitCode(err))

	_, err = execute(t, "account", "update", "--chat-id=-1001", "--given-name", "Ghost")
	assert.ErrorIs(t, err, store.ErrAccountNotFound)
}

func TestAccountGetFlagValidation(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "account", "get")
	assert.Error(t, err)

	_, err = execute(t, "account", "get", "--chat-id", "1", "--handle", "x")
	assert.Error(t, err)
}

func TestSiteAndFormCommands(t *testing.T) {
	setupEnv(t)

	mustExecute(t, "account", "create", "--chat-id", "55", "--handle", "builder")

	site := decode[domain.Site](t, mustExecute(t, "site", "add", "--chat-id", "55", "--domain", "example.com"))
	siteID := strconv.FormatInt(site.ID, 10)
	assert.Equal(t, "example.com", *site.Domain)

	cleared := decode[domain.Site](t, mustExecute(t, "site", "update", "--site-id", siteID))
	assert.Nil(t, cleared.Domain)

	form := decode[domain.Form](t, mustExecute(t, "form", "add", "--site-id", siteID, "--name", "signup"))
	formID := strconv.FormatInt(form.ID, 10)

	renamed := decode[domain.Form](t, mustExecute(t, "form", "rename", "--form-id", formID, "--name", "register"))
	assert.Equal(t, "register", renamed.Name)

	forms := decode[[]domain.Form](t, mustExecute(t, "form", "list", "--site-id", siteID))
	require.Len(t, forms, 1)

	sites := decode[[]domain.Site](t, mustExecute(t, "site", "list", "--chat-id", "55"))
	require.Len(t, sites, 1)

	_, err := execute(t, "form", "add", "--site-id", "999", "--name", "orphan")
	assert.ErrorIs(t, err, store.ErrSiteNotFound)

	mustExecute(t, "form", "delete", "--form-id", formID)
	mustExecute(t, "site", "delete", "--site-id", siteID)

	_, err = execute(t, "site", "delete", "--site-id", siteID)
	assert.ErrorIs(t, err, store.ErrSiteNotFound)

	empty := decode[[]domain.Site](t, mustExecute(t, "site", "list", "--chat-id", "55"))
	assert.Empty(t, empty)
}

func TestMigrateCommands(t *testing.T) {
	setupEnv(t)

	up := decode[map[string]int64](t, mustExecute(t, "migrate", "up"))
	assert.Equal(t, int64(1), up["version"])

	var status []migrationStatus
	require.NoError(t, yaml.Unmarshal([]byte(mustExecute(t, "migrate", "status", "-o", "yaml")), &status))
	require.Len(t, status, 1)
	assert.Equal(t, "applied", status[0].State)
	assert.NotNil(t, status[0].AppliedAt)

	down := decode[map[string]any](t, mustExecute(t, "migrate", "down"))
	assert.EqualValues(t, 1, down["version"])

	status = decode[[]migrationStatus](t, mustExecute(t, "migrate", "status"))
	require.Len(t, status, 1)
	assert.Equal(t, "pending", status[0].State)
	assert.Nil(t, status[0].AppliedAt)
}

func TestConfigShowRedactsPassword(t *testing.T) {
	setupEnv(t)
	t.Setenv("BOTSTORE_DATABASE_PASSWORD", "hunter2")

	out := mustExecute(t, "config", "show", "--output", "yaml")
	assert.Contains(t, out, "driver: sqlite")
	assert.Contains(t, out, "****")
	assert.NotContains(t, out, "hunter2")
}

func TestInvalidConfiguration(t *testing.T) {
	setupEnv(t)
	t.Setenv("BOTSTORE_DISPATCH_MODE", "sometimes")

	_, err := execute(t, "account", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Equal(t, exitConfig, exitCode(err))
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"not found", fmt.Errorf("get: %w", store.ErrSiteNotFound), exitNotFound},
		{"no rows", sql.ErrNoRows, exitNotFound},
		{"duplicate handle", store.ErrHandleExists, exitDuplicate},
		{"dangling reference", store.ErrInvalidReference, exitConstraint},
		{"invalid entity", store.ErrInvalidEntity, exitConstraint},
		{"transient", fmt.Errorf("%w: database is locked", store.ErrTransient), exitTempFail},
		{"config", fmt.Errorf("failed to load configuration: %w", config.ErrInvalidConfig), exitConfig},
		{"other", errors.New("boom"), exitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestExplicitEnvFileMustExist(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "--env-file", filepath.Join(t.TempDir(), "missing.env"), "config", "show")
	assert.Error(t, err)
}

func TestUnsupportedOutputFormat(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "account", "list", "--output", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}
