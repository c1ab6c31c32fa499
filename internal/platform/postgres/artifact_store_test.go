//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/careerforge/careerforge-api/internal/domain"
	"github.com/careerforge/careerforge-api/internal/platform/postgres"
	"github.com/careerforge/careerforge-api/internal/store"
	"github.com/careerforge/careerforge-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newArtifact(t *testing.T, key string, status domain.ArtifactStatus, created time.Time, ttl time.Duration) *domain.Artifact {
	t.Helper()
	a, err := domain.NewArtifact(key, "insights", json.RawMessage(`{"growthRate": 4.5, "demandLevel": "HIGH"}`),
		status, created, ttl)
	require.NoError(t, err)
	return a
}

func TestPostgresArtifactStore_UpsertAndFind(t *testing.T) {
	t.Parallel()

	db := testdb.GetTestDBWithT(t)
	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		s := postgres.NewPostgresArtifactStore(tx, nil)
		ctx := context.Background()
		now := time.Now().UTC().Truncate(time.Microsecond)

		_, err := s.Find(ctx, "insights:healthcare")
		assert.ErrorIs(t, err, store.ErrArtifactNotFound)

		a := newArtifact(t, "insights:healthcare", domain.ArtifactStatusFresh, now, time.Hour)
		require.NoError(t, s.Upsert(ctx, a))

		got, err := s.Find(ctx, a.Key)
		require.NoError(t, err)
		assert.Equal(t, a.Kind, got.Kind)
		assert.Equal(t, a.Status, got.Status)
		assert.JSONEq(t, string(a.Payload), string(got.Payload))
		assert.True(t, a.CreatedAt.Equal(got.CreatedAt))
		assert.True(t, a.NextRefreshAt.Equal(got.NextRefreshAt))

		replaced := a.Supersede(domain.ArtifactStatusStale, now.Add(time.Minute), 2*time.Hour)
		require.NoError(t, s.Upsert(ctx, replaced))

		got, err = s.Find(ctx, a.Key)
		require.NoError(t, err)
		assert.Equal(t, domain.ArtifactStatusStale, got.Status)
		assert.True(t, replaced.NextRefreshAt.Equal(got.NextRefreshAt))
	})
}

func TestPostgresArtifactStore_UpsertRejectsInvalid(t *testing.T) {
	t.Parallel()

	db := testdb.GetTestDBWithT(t)
	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		s := postgres.NewPostgresArtifactStore(tx, nil)
		err := s.Upsert(context.Background(), &domain.Artifact{Key: "k", Kind: "insights"})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestPostgresArtifactStore_Delete(t *testing.T) {
	t.Parallel()

	db := testdb.GetTestDBWithT(t)
	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		s := postgres.NewPostgresArtifactStore(tx, nil)
		ctx := context.Background()

		a := newArtifact(t, "insights:finance", domain.ArtifactStatusFresh, time.Now(), time.Hour)
		require.NoError(t, s.Upsert(ctx, a))
		require.NoError(t, s.Delete(ctx, a.Key))
		require.NoError(t, s.Delete(ctx, a.Key))

		_, err := s.Find(ctx, a.Key)
		assert.ErrorIs(t, err, store.ErrArtifactNotFound)
	})
}

func TestPostgresArtifactStore_ListDue(t *testing.T) {
	t.Parallel()

	db := testdb.GetTestDBWithT(t)
	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		s := postgres.NewPostgresArtifactStore(tx, nil)
		ctx := context.Background()
		now := time.Now().UTC()

		require.NoError(t, s.Upsert(ctx, newArtifact(t, "due-old", domain.ArtifactStatusFresh, now.Add(-3*time.Hour), time.Hour)))
		require.NoError(t, s.Upsert(ctx, newArtifact(t, "due-new", domain.ArtifactStatusFallback, now.Add(-2*time.Hour), time.Hour)))
		require.NoError(t, s.Upsert(ctx, newArtifact(t, "not-due", domain.ArtifactStatusFresh, now, time.Hour)))

		due, err := s.ListDue(ctx, "insights", now, 10)
		require.NoError(t, err)
		require.Len(t, due, 2)
		assert.Equal(t, "due-old", due[0].Key)
		assert.Equal(t, "due-new", due[1].Key)

		due, err = s.ListDue(ctx, "insights", now, 1)
		require.NoError(t, err)
		assert.Len(t, due, 1)

		due, err = s.ListDue(ctx, "quiz", now, 10)
		require.NoError(t, err)
		assert.Empty(t, due)
	})
}
