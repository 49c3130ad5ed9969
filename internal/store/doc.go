// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the operation functions, so the same unit of work runs unchanged against
// PostgreSQL or SQLite.
//
// The package also owns the storage error taxonomy. Dialect packages map
// driver errors onto these sentinels, so callers only ever need errors.Is.
package store
