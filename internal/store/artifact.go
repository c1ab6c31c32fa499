package store

import (
	"context"
	"time"

	"github.com/careerforge/careerforge-api/internal/domain"
)

// ArtifactStore defines the interface for generated artifact persistence.
// Implementations must make Upsert an atomic replace-or-insert keyed by
// Artifact.Key; readers never observe a partially written artifact.
type ArtifactStore interface {
	// Find retrieves the artifact stored under key.
	// Returns ErrArtifactNotFound if there is none.
	Find(ctx context.Context, key string) (*domain.Artifact, error)

	// Upsert stores the artifact, replacing any artifact with the same key.
	// Returns ErrInvalidEntity if the artifact fails domain validation.
	Upsert(ctx context.Context, artifact *domain.Artifact) error

	// Delete removes the artifact stored under key.
	// Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// ListDue returns up to limit artifacts of the given kind whose
	// NextRefreshAt is not after before, oldest first.
	ListDue(ctx context.Context, kind string, before time.Time, limit int) ([]*domain.Artifact, error)
}
