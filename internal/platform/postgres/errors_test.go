package postgres_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/careerforge/careerforge-api/internal/platform/postgres"
	"github.com/careerforge/careerforge-api/internal/store"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"no rows", sql.ErrNoRows, store.ErrNotFound},
		{"check violation", &pgconn.PgError{Code: "23514", ConstraintName: "generated_artifacts_status_check"}, store.ErrInvalidEntity},
		{"not null", &pgconn.PgError{Code: "23502", ColumnName: "payload"}, store.ErrInvalidEntity},
		{"bad json", &pgconn.PgError{Code: "22P02"}, store.ErrInvalidEntity},
		{"bad conn", driver.ErrBadConn, store.ErrUnavailable},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), store.ErrUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			mapped := postgres.MapError(tc.err)
			assert.ErrorIs(t, mapped, tc.target)
		})
	}
}

func TestMapError_PassThrough(t *testing.T) {
	t.Parallel()

	assert.NoError(t, postgres.MapError(nil))

	other := errors.New("syntax error")
	assert.Equal(t, other, postgres.MapError(other))

	unique := &pgconn.PgError{Code: "23505"}
	assert.Equal(t, error(unique), postgres.MapError(unique))
}

func TestIsCheckConstraintViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, postgres.IsCheckConstraintViolation(&pgconn.PgError{Code: "23514"}))
	assert.False(t, postgres.IsCheckConstraintViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, postgres.IsCheckConstraintViolation(errors.New("x")))
}

func TestNewPostgresArtifactStore_PanicsOnNilDB(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { postgres.NewPostgresArtifactStore(nil, nil) })
}
