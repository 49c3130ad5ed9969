// Package testdb provides utilities for database tests.
//
// SQLite-backed helpers give every test its own schema-ready database file
// under t.TempDir, so tests can run in parallel without cleanup. PostgreSQL
// helpers read a connection URL from the environment and skip the test when
// none is configured.
//
// # Basic Usage
//
//	func TestMyFeature(t *testing.T) {
//	    t.Parallel()
//	    engine := testdb.OpenSQLite(t)
//	    // engine.DB has the full schema applied
//	}
//
// Integration tests against PostgreSQL carry the integration build tag:
//
//	cfg := testdb.PostgresConfig(t) // skips when DATABASE_URL is unset
package testdb
