package postgres

import (
	"embed"
	"io/fs"

	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/phrazzld/botstore/internal/store"
)

// DriverName is the database/sql driver registered by pgx.
const DriverName = "pgx"

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations returns the embedded goose migrations rooted at the migration directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic("postgres: embedded migrations missing: " + err.Error())
	}
	return sub
}

// Dialect returns the PostgreSQL dialect.
func Dialect() store.Dialect {
	return store.Dialect{
		Name:       "postgres",
		DriverName: DriverName,
		LockClause: " FOR UPDATE",
		UpdatedAt:  "CURRENT_TIMESTAMP",
		Migrations: Migrations(),
		MapError:   MapError,
	}
}
