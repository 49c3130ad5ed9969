// Package postgres provides the PostgreSQL dialect for the shared SQL
// stores: driver registration through pgx, embedded goose migrations and the
// mapping from PostgreSQL error codes to the store error taxonomy.
package postgres
