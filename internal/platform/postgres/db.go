package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/careerforge/careerforge-api/internal/store"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
)

// Open opens a PostgreSQL connection pool through the pgx stdlib driver and
// verifies it with a ping.
func Open(ctx context.Context, url string, maxOpenConns int) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxOpenConns)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %v", store.ErrUnavailable, err)
	}

	return db, nil
}
