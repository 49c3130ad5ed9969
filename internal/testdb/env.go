package testdb

import "os"

// Environment variables checked, in order, for a PostgreSQL test database.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvTestDBURL   = "BOTSTORE_TEST_DB_URL"
)

// GetTestDatabaseURL returns the first non-empty database URL from the environment.
func GetTestDatabaseURL() string {
	for _, name := range []string{EnvTestDBURL, EnvDatabaseURL} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// IsIntegrationTestEnvironment returns true if a database URL is configured,
// indicating that integration tests can be run.
func IsIntegrationTestEnvironment() bool {
	return GetTestDatabaseURL() != ""
}

// ShouldSkipDatabaseTest returns true if no PostgreSQL database is available.
func ShouldSkipDatabaseTest() bool {
	return !IsIntegrationTestEnvironment()
}
