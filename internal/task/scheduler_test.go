package task

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerforge/careerforge-api/internal/domain"
	"github.com/careerforge/careerforge-api/internal/mocks"
)

type recordingRefresher struct {
	mu    sync.Mutex
	keys  []string
	err   error
	block chan struct{}
}

func (r *recordingRefresher) RefreshArtifact(ctx context.Context, kind, key string) error {
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, kind+"/"+key)
	return r.err
}

func (r *recordingRefresher) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.keys...)
}

type collectingSubmitter struct {
	tasks []Task
	err   error
	limit int
}

func (s *collectingSubmitter) Submit(_ context.Context, task Task) error {
	if s.err != nil {
		return s.err
	}
	if s.limit > 0 && len(s.tasks) >= s.limit {
		return ErrQueueFull
	}
	s.tasks = append(s.tasks, task)
	return nil
}

func seedArtifact(t *testing.T, st *mocks.MockArtifactStore, key, kind string, created time.Time, ttl time.Duration) {
	t.Helper()
	a, err := domain.NewArtifact(key, kind, json.RawMessage(`{}`), domain.ArtifactStatusFresh, created, ttl)
	require.NoError(t, err)
	st.Seed(a)
}

func TestRefreshScheduler_RunOnce(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	st := mocks.NewMockArtifactStore()
	seedArtifact(t, st, "insights:retail", "insights", now.Add(-48*time.Hour), 24*time.Hour)
	seedArtifact(t, st, "insights:energy", "insights", now.Add(-72*time.Hour), 24*time.Hour)
	seedArtifact(t, st, "insights:fresh", "insights", now, 24*time.Hour)
	seedArtifact(t, st, "quiz:x:y", "quiz", now.Add(-72*time.Hour), time.Hour)

	sub := &collectingSubmitter{}
	s := NewRefreshScheduler(st, sub, &recordingRefresher{}, SchedulerConfig{
		Kinds:     []string{"insights"},
		Interval:  time.Minute,
		BatchSize: 10,
	}, setupTestLogger(), WithSchedulerClock(func() time.Time { return now }))

	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, s.Pending())

	require.Len(t, sub.tasks, 2)
	assert.Equal(t, "insights:energy", sub.tasks[0].(*RefreshTask).Key(), "oldest first")
	assert.Equal(t, TaskTypeArtifactRefresh, sub.tasks[0].Type())

	n, err = s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "pending keys are not queued twice")
}

func TestRefreshScheduler_ReleasesKeyAfterExecution(t *testing.T) {
	t.Parallel()

	now := time.Now()
	st := mocks.NewMockArtifactStore()
	seedArtifact(t, st, "insights:retail", "insights", now.Add(-2*time.Hour), time.Hour)

	refresher := &recordingRefresher{err: errors.New("provider down")}
	sub := &collectingSubmitter{}
	s := NewRefreshScheduler(st, sub, refresher, SchedulerConfig{Kinds: []string{"insights"}}, setupTestLogger(),
		WithSchedulerClock(func() time.Time { return now }))

	_, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, sub.tasks, 1)

	task := sub.tasks[0]
	assert.Equal(t, TaskStatusPending, task.Status())
	assert.Error(t, task.Execute(context.Background()))
	assert.Equal(t, TaskStatusFailed, task.Status())
	assert.Zero(t, s.Pending())
	assert.Equal(t, []string{"insights/insights:retail"}, refresher.Keys())

	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRefreshScheduler_QueueFullStopsScan(t *testing.T) {
	t.Parallel()

	now := time.Now()
	st := mocks.NewMockArtifactStore()
	for _, k := range []string{"insights:a", "insights:b", "insights:c"} {
		seedArtifact(t, st, k, "insights", now.Add(-2*time.Hour), time.Hour)
	}

	sub := &collectingSubmitter{limit: 1}
	s := NewRefreshScheduler(st, sub, &recordingRefresher{}, SchedulerConfig{Kinds: []string{"insights"}}, setupTestLogger(),
		WithSchedulerClock(func() time.Time { return now }))

	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, s.Pending(), "keys rejected by a full queue are released")
}

func TestRefreshScheduler_ListFailure(t *testing.T) {
	t.Parallel()

	st := mocks.NewMockArtifactStore()
	st.ListErr = errors.New("connection reset")

	s := NewRefreshScheduler(st, &collectingSubmitter{}, &recordingRefresher{},
		SchedulerConfig{Kinds: []string{"insights"}}, setupTestLogger())

	n, err := s.RunOnce(context.Background())
	assert.Zero(t, n)
	assert.ErrorIs(t, err, st.ListErr)
}

func TestRefreshScheduler_StartRefreshesThroughRunner(t *testing.T) {
	t.Parallel()

	now := time.Now()
	st := mocks.NewMockArtifactStore()
	seedArtifact(t, st, "insights:retail", "insights", now.Add(-2*time.Hour), time.Hour)

	runner := NewTaskRunner(TaskRunnerConfig{WorkerCount: 1, QueueSize: 4}, setupTestLogger())
	runner.Start()
	defer runner.Stop()

	refresher := &recordingRefresher{}
	s := NewRefreshScheduler(st, runner, refresher, SchedulerConfig{
		Kinds:    []string{"insights"},
		Interval: 10 * time.Millisecond,
	}, setupTestLogger())

	s.Start(context.Background())
	require.Eventually(t, func() bool { return len(refresher.Keys()) > 0 }, time.Second, 5*time.Millisecond)
	s.Stop()
	s.Stop()

	assert.Equal(t, "insights/insights:retail", refresher.Keys()[0])
}

func TestRefreshTask_CancelledContext(t *testing.T) {
	t.Parallel()

	refresher := &recordingRefresher{block: make(chan struct{})}
	released := make(chan string, 1)
	task := NewRefreshTask("insights", "insights:retail", refresher, func(key string) { released <- key })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, task.Execute(ctx), context.Canceled)
	assert.Equal(t, TaskStatusFailed, task.Status())
	assert.Equal(t, "insights:retail", <-released)
	assert.NotEqual(t, task.ID(), NewRefreshTask("insights", "insights:retail", refresher, nil).ID())
}
