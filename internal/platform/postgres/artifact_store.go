package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/careerforge/careerforge-api/internal/domain"
	"github.com/careerforge/careerforge-api/internal/platform/logger"
	"github.com/careerforge/careerforge-api/internal/store"
)

// PostgresArtifactStore implements the store.ArtifactStore interface
// using a PostgreSQL database as the storage backend.
type PostgresArtifactStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresArtifactStore creates a new PostgreSQL implementation of the ArtifactStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresArtifactStore(db store.DBTX, logger *slog.Logger) *PostgresArtifactStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresArtifactStore{
		db:     db,
		logger: logger.With(slog.String("component", "artifact_store")),
	}
}

// Ensure PostgresArtifactStore implements store.ArtifactStore interface
var _ store.ArtifactStore = (*PostgresArtifactStore)(nil)

const selectArtifactColumns = `SELECT key, kind, payload, status, created_at, next_refresh_at FROM generated_artifacts`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArtifact(row rowScanner) (*domain.Artifact, error) {
	var a domain.Artifact
	var payload []byte
	var status string

	if err := row.Scan(&a.Key, &a.Kind, &payload, &status, &a.CreatedAt, &a.NextRefreshAt); err != nil {
		return nil, err
	}

	a.Payload = payload
	a.Status = domain.ArtifactStatus(status)
	a.CreatedAt = a.CreatedAt.UTC()
	a.NextRefreshAt = a.NextRefreshAt.UTC()
	return &a, nil
}

// Find implements store.ArtifactStore.Find.
// Returns store.ErrArtifactNotFound if no artifact is stored under key.
func (s *PostgresArtifactStore) Find(ctx context.Context, key string) (*domain.Artifact, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	a, err := scanArtifact(s.db.QueryRowContext(ctx, selectArtifactColumns+` WHERE key = $1`, key))
	if err != nil {
		mapped := MapError(err)
		if store.IsNotFoundError(mapped) {
			log.Debug("artifact not found", slog.String("key", key))
			return nil, store.ErrArtifactNotFound
		}

		log.Error("failed to find artifact",
			slog.String("error", err.Error()),
			slog.String("key", key))
		return nil, store.NewStoreError("artifact", "find", "failed to query artifact", mapped)
	}

	return a, nil
}

// Upsert implements store.ArtifactStore.Upsert.
// The row is replaced in a single statement, so readers see either the
// previous artifact or the new one.
func (s *PostgresArtifactStore) Upsert(ctx context.Context, artifact *domain.Artifact) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := artifact.Validate(); err != nil {
		log.Warn("artifact validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("key", artifact.Key))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO generated_artifacts (key, kind, payload, status, created_at, next_refresh_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (key) DO UPDATE SET
			kind = EXCLUDED.kind,
			payload = EXCLUDED.payload,
			status = EXCLUDED.status,
			created_at = EXCLUDED.created_at,
			next_refresh_at = EXCLUDED.next_refresh_at
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		artifact.Key,
		artifact.Kind,
		[]byte(artifact.Payload),
		string(artifact.Status),
		artifact.CreatedAt,
		artifact.NextRefreshAt,
	)
	if err != nil {
		log.Error("failed to upsert artifact",
			slog.String("error", err.Error()),
			slog.String("key", artifact.Key))
		return store.NewStoreError("artifact", "upsert", "failed to write artifact", MapError(err))
	}

	log.Debug("artifact upserted",
		slog.String("key", artifact.Key),
		slog.String("status", string(artifact.Status)))
	return nil
}

// Delete implements store.ArtifactStore.Delete.
func (s *PostgresArtifactStore) Delete(ctx context.Context, key string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.db.ExecContext(ctx, `DELETE FROM generated_artifacts WHERE key = $1`, key); err != nil {
		log.Error("failed to delete artifact",
			slog.String("error", err.Error()),
			slog.String("key", key))
		return store.NewStoreError("artifact", "delete", "failed to delete artifact", MapError(err))
	}

	return nil
}

// ListDue implements store.ArtifactStore.ListDue.
func (s *PostgresArtifactStore) ListDue(
	ctx context.Context,
	kind string,
	before time.Time,
	limit int,
) ([]*domain.Artifact, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := selectArtifactColumns + `
		WHERE kind = $1 AND next_refresh_at <= $2
		ORDER BY next_refresh_at ASC
		LIMIT $3
	`
	rows, err := s.db.QueryContext(ctx, query, kind, before, limit)
	if err != nil {
		log.Error("failed to list due artifacts",
			slog.String("error", err.Error()),
			slog.String("kind", kind))
		return nil, store.NewStoreError("artifact", "list_due", "failed to query artifacts", MapError(err))
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	var due []*domain.Artifact
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, store.NewStoreError("artifact", "list_due", "failed to scan artifact", MapError(err))
		}
		due = append(due, a)
	}
	if err := rows.Err(); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, store.NewStoreError("artifact", "list_due", "failed to iterate artifacts", MapError(err))
	}

	return due, nil
}
