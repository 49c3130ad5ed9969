// Package sqlite provides the SQLite dialect for the shared SQL stores,
// backed by the pure-Go modernc.org/sqlite driver. It is used for embedded
// single-process deployments and for in-process tests.
package sqlite
