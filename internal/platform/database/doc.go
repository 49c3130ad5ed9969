// Package database provisions storage engines: it resolves the configured
// dialect, opens and pings a *sql.DB with the pool settings that dialect
// needs, and brings the schema up to date with embedded goose migrations.
package database
