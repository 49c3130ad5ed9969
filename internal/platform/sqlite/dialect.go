package sqlite

import (
	"embed"
	"fmt"
	"io/fs"
	"net/url"

	"github.com/phrazzld/botstore/internal/store"
	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// BusyTimeoutMillis bounds how long a connection waits on a locked database.
const BusyTimeoutMillis = 5000

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations returns the embedded goose migrations rooted at the migration directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic("sqlite: embedded migrations missing: " + err.Error())
	}
	return sub
}

// UpdatedAtExpr stamps writes with millisecond precision. CURRENT_TIMESTAMP
// only resolves whole seconds, and two writes within one millisecond still
// advance the stored value.
const UpdatedAtExpr = `strftime('%Y-%m-%d %H:%M:%f', MAX(julianday('now'), julianday(updated_at) + 0.001 / 86400.0))`

// Dialect returns the SQLite dialect. SQLite has no row locks; writers are
// serialized by BEGIN IMMEDIATE instead (see DSN).
func Dialect() store.Dialect {
	return store.Dialect{
		Name:       "sqlite",
		DriverName: DriverName,
		LockClause: "",
		UpdatedAt:  UpdatedAtExpr,
		Migrations: Migrations(),
		MapError:   MapError,
	}
}

// DSN builds a connection string for the database file at path. Foreign keys
// are enabled, a busy timeout is set, and read-write transactions take the
// write lock when they begin.
func DSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", BusyTimeoutMillis))
	q.Set("_txlock", "immediate")
	return "file:" + path + "?" + q.Encode()
}
