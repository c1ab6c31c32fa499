package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/careerforge/careerforge-api/internal/domain"
	"github.com/careerforge/careerforge-api/internal/store"
)

// MockArtifactStore is an in-memory store.ArtifactStore with error injection
// and call tracking.
type MockArtifactStore struct {
	// FindErr, UpsertErr, DeleteErr and ListErr are returned by the
	// corresponding method when set.
	FindErr   error
	UpsertErr error
	DeleteErr error
	ListErr   error

	mu        sync.Mutex
	artifacts map[string]*domain.Artifact
	finds     int
	upserts   int
}

// NewMockArtifactStore creates an empty MockArtifactStore.
func NewMockArtifactStore() *MockArtifactStore {
	return &MockArtifactStore{artifacts: make(map[string]*domain.Artifact)}
}

// Seed stores artifacts without counting them as upserts.
func (m *MockArtifactStore) Seed(artifacts ...*domain.Artifact) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range artifacts {
		m.artifacts[a.Key] = a.Clone()
	}
}

// Find implements store.ArtifactStore.
func (m *MockArtifactStore) Find(_ context.Context, key string) (*domain.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finds++

	if m.FindErr != nil {
		return nil, m.FindErr
	}
	a, ok := m.artifacts[key]
	if !ok {
		return nil, store.ErrArtifactNotFound
	}
	return a.Clone(), nil
}

// Upsert implements store.ArtifactStore.
func (m *MockArtifactStore) Upsert(_ context.Context, artifact *domain.Artifact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++

	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	if err := artifact.Validate(); err != nil {
		return store.NewStoreError("artifact", "upsert", "invalid artifact", store.ErrInvalidEntity)
	}
	m.artifacts[artifact.Key] = artifact.Clone()
	return nil
}

// Delete implements store.ArtifactStore.
func (m *MockArtifactStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.artifacts, key)
	return nil
}

// ListDue implements store.ArtifactStore.
func (m *MockArtifactStore) ListDue(
	_ context.Context,
	kind string,
	before time.Time,
	limit int,
) ([]*domain.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListErr != nil {
		return nil, m.ListErr
	}

	var due []*domain.Artifact
	for _, a := range m.artifacts {
		if a.Kind == kind && !a.NextRefreshAt.After(before) {
			due = append(due, a.Clone())
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].NextRefreshAt.Before(due[j].NextRefreshAt) })
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// Get returns the stored artifact for key without counting a Find.
func (m *MockArtifactStore) Get(key string) (*domain.Artifact, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.artifacts[key]
	return a.Clone(), ok
}

// Upserts returns how many times Upsert was called.
func (m *MockArtifactStore) Upserts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upserts
}

// Finds returns how many times Find was called.
func (m *MockArtifactStore) Finds() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.finds
}

var _ store.ArtifactStore = (*MockArtifactStore)(nil)
