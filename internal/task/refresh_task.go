package task

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Refresher regenerates the artifact stored under a key.
type Refresher interface {
	RefreshArtifact(ctx context.Context, kind, key string) error
}

// RefreshTask regenerates one due artifact.
type RefreshTask struct {
	id        uuid.UUID
	kind      string
	key       string
	refresher Refresher
	onDone    func(key string)

	mu     sync.Mutex
	status TaskStatus
}

// NewRefreshTask creates a pending task refreshing the artifact under key.
// onDone, when set, is called with key once the task has run.
func NewRefreshTask(kind, key string, refresher Refresher, onDone func(key string)) *RefreshTask {
	return &RefreshTask{
		id:        uuid.New(),
		kind:      kind,
		key:       key,
		refresher: refresher,
		onDone:    onDone,
		status:    TaskStatusPending,
	}
}

// ID returns the task's unique identifier
func (t *RefreshTask) ID() uuid.UUID {
	return t.id
}

// Type returns TaskTypeArtifactRefresh.
func (t *RefreshTask) Type() string {
	return TaskTypeArtifactRefresh
}

// Key returns the key of the artifact being refreshed.
func (t *RefreshTask) Key() string {
	return t.key
}

// Status returns the current task status
func (t *RefreshTask) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *RefreshTask) setStatus(s TaskStatus) {
	t.mu.Lock()
	t.status = s
	t.mu.Unlock()
}

// Execute refreshes the artifact.
func (t *RefreshTask) Execute(ctx context.Context) error {
	if t.onDone != nil {
		defer t.onDone(t.key)
	}

	t.setStatus(TaskStatusProcessing)
	if err := t.refresher.RefreshArtifact(ctx, t.kind, t.key); err != nil {
		t.setStatus(TaskStatusFailed)
		return err
	}
	t.setStatus(TaskStatusCompleted)
	return nil
}
