// Package sqlstore implements the store interfaces on database/sql.
//
// All queries use $N placeholders and ANSI SQL accepted by both PostgreSQL
// and SQLite; what differs between the engines (row locking clause, error
// codes) comes from the store.Dialect passed to each constructor.
package sqlstore
