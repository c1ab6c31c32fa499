package store

import (
	"context"
	"database/sql"
)

// DBTX abstracts the database/sql access layer shared by the SQL-backed
// artifact stores. It is implemented by both *sql.DB and *sql.Tx, so the
// PostgreSQL and SQLite stores can run against a pool or inside a
// caller-managed transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
