package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/careerforge/careerforge-api/internal/domain"
	"github.com/careerforge/careerforge-api/internal/platform/logger"
	"github.com/careerforge/careerforge-api/internal/store"
	_ "modernc.org/sqlite" // sqlite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS generated_artifacts (
	key             TEXT PRIMARY KEY,
	kind            TEXT    NOT NULL,
	payload         TEXT    NOT NULL,
	status          TEXT    NOT NULL CHECK (status IN ('fresh', 'stale', 'fallback')),
	created_at      INTEGER NOT NULL,
	next_refresh_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_generated_artifacts_kind_refresh
	ON generated_artifacts (kind, next_refresh_at);
`

// Open opens the SQLite database at path and creates the artifact schema if
// needed. Use ":memory:" for a private in-memory database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" && !strings.Contains(path, "?") {
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create sqlite schema: %w", err)
	}

	return db, nil
}

// SQLiteArtifactStore implements the store.ArtifactStore interface on SQLite.
// Timestamps are stored as Unix nanoseconds in UTC.
type SQLiteArtifactStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSQLiteArtifactStore creates a SQLite artifact store on db, which must
// have been prepared by Open. If logger is nil, a default logger will be used.
func NewSQLiteArtifactStore(db store.DBTX, logger *slog.Logger) *SQLiteArtifactStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteArtifactStore{
		db:     db,
		logger: logger.With(slog.String("component", "artifact_store")),
	}
}

var _ store.ArtifactStore = (*SQLiteArtifactStore)(nil)

const selectArtifactColumns = `SELECT key, kind, payload, status, created_at, next_refresh_at FROM generated_artifacts`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArtifact(row rowScanner) (*domain.Artifact, error) {
	var a domain.Artifact
	var payload, status string
	var created, next int64

	if err := row.Scan(&a.Key, &a.Kind, &payload, &status, &created, &next); err != nil {
		return nil, err
	}

	a.Payload = []byte(payload)
	a.Status = domain.ArtifactStatus(status)
	a.CreatedAt = time.Unix(0, created).UTC()
	a.NextRefreshAt = time.Unix(0, next).UTC()
	return &a, nil
}

// Find implements store.ArtifactStore.Find.
func (s *SQLiteArtifactStore) Find(ctx context.Context, key string) (*domain.Artifact, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	a, err := scanArtifact(s.db.QueryRowContext(ctx, selectArtifactColumns+` WHERE key = ?`, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrArtifactNotFound
		}
		log.Error("failed to find artifact",
			slog.String("error", err.Error()),
			slog.String("key", key))
		return nil, store.NewStoreError("artifact", "find", "failed to query artifact", mapError(err))
	}

	return a, nil
}

// Upsert implements store.ArtifactStore.Upsert.
func (s *SQLiteArtifactStore) Upsert(ctx context.Context, artifact *domain.Artifact) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := artifact.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO generated_artifacts (key, kind, payload, status, created_at, next_refresh_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			kind = excluded.kind,
			payload = excluded.payload,
			status = excluded.status,
			created_at = excluded.created_at,
			next_refresh_at = excluded.next_refresh_at
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		artifact.Key,
		artifact.Kind,
		string(artifact.Payload),
		string(artifact.Status),
		artifact.CreatedAt.UnixNano(),
		artifact.NextRefreshAt.UnixNano(),
	)
	if err != nil {
		log.Error("failed to upsert artifact",
			slog.String("error", err.Error()),
			slog.String("key", artifact.Key))
		return store.NewStoreError("artifact", "upsert", "failed to write artifact", mapError(err))
	}

	return nil
}

// Delete implements store.ArtifactStore.Delete.
func (s *SQLiteArtifactStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM generated_artifacts WHERE key = ?`, key); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete artifact",
			slog.String("error", err.Error()),
			slog.String("key", key))
		return store.NewStoreError("artifact", "delete", "failed to delete artifact", mapError(err))
	}
	return nil
}

// ListDue implements store.ArtifactStore.ListDue.
func (s *SQLiteArtifactStore) ListDue(
	ctx context.Context,
	kind string,
	before time.Time,
	limit int,
) ([]*domain.Artifact, error) {
	query := selectArtifactColumns + `
		WHERE kind = ? AND next_refresh_at <= ?
		ORDER BY next_refresh_at ASC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, kind, before.UnixNano(), limit)
	if err != nil {
		return nil, store.NewStoreError("artifact", "list_due", "failed to query artifacts", mapError(err))
	}
	defer func() { _ = rows.Close() }()

	var due []*domain.Artifact
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, store.NewStoreError("artifact", "list_due", "failed to scan artifact", mapError(err))
		}
		due = append(due, a)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("artifact", "list_due", "failed to iterate artifacts", mapError(err))
	}

	return due, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, sql.ErrConnDone), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	case strings.Contains(err.Error(), "CHECK constraint failed"):
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	case strings.Contains(err.Error(), "database is locked"), strings.Contains(err.Error(), "database is closed"):
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return err
}
