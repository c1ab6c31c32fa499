package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/careerforge/careerforge-api/internal/domain"
)

// DueLister lists artifacts whose refresh time has passed.
// store.ArtifactStore implements it.
type DueLister interface {
	ListDue(ctx context.Context, kind string, before time.Time, limit int) ([]*domain.Artifact, error)
}

// Submitter accepts tasks for background execution.
type Submitter interface {
	Submit(ctx context.Context, task Task) error
}

// SchedulerConfig configures the RefreshScheduler.
type SchedulerConfig struct {
	// Kinds are the artifact kinds refreshed in the background.
	Kinds []string
	// Interval between scans for due artifacts.
	Interval time.Duration
	// BatchSize caps the number of artifacts listed per kind and scan.
	BatchSize int
}

// RefreshScheduler periodically submits refresh tasks for due artifacts.
// An artifact is never queued twice: its key stays pending until its task
// has run.
type RefreshScheduler struct {
	lister    DueLister
	submitter Submitter
	refresher Refresher
	cfg       SchedulerConfig
	logger    *slog.Logger
	now       func() time.Time

	mu      sync.Mutex
	pending map[string]struct{}

	cancel context.CancelFunc
	done   chan struct{}
}

// SchedulerOption configures optional RefreshScheduler behavior.
type SchedulerOption func(*RefreshScheduler)

// WithSchedulerClock replaces time.Now.
func WithSchedulerClock(now func() time.Time) SchedulerOption {
	return func(s *RefreshScheduler) { s.now = now }
}

// NewRefreshScheduler creates a RefreshScheduler.
func NewRefreshScheduler(
	lister DueLister,
	submitter Submitter,
	refresher Refresher,
	cfg SchedulerConfig,
	logger *slog.Logger,
	opts ...SchedulerOption,
) *RefreshScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}

	s := &RefreshScheduler{
		lister:    lister,
		submitter: submitter,
		refresher: refresher,
		cfg:       cfg,
		logger:    logger.With(slog.String("component", "refresh_scheduler")),
		now:       time.Now,
		pending:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunOnce lists due artifacts of every configured kind and submits a
// refresh task for each one not already pending. It returns the number of
// tasks submitted. A full queue ends the scan early without error.
func (s *RefreshScheduler) RunOnce(ctx context.Context) (int, error) {
	now := s.now()
	submitted := 0
	var errs []error

	for _, kind := range s.cfg.Kinds {
		due, err := s.lister.ListDue(ctx, kind, now, s.cfg.BatchSize)
		if err != nil {
			errs = append(errs, fmt.Errorf("list due %s artifacts: %w", kind, err))
			continue
		}

		for _, a := range due {
			if !s.claim(a.Key) {
				continue
			}

			err := s.submitter.Submit(ctx, NewRefreshTask(kind, a.Key, s.refresher, s.release))
			if err != nil {
				s.release(a.Key)
				if errors.Is(err, ErrQueueFull) {
					s.logger.WarnContext(ctx, "refresh queue full, deferring remaining artifacts",
						slog.Int("submitted", submitted))
					return submitted, errors.Join(errs...)
				}
				errs = append(errs, fmt.Errorf("submit refresh of %q: %w", a.Key, err))
				continue
			}
			submitted++
		}
	}

	if submitted > 0 {
		s.logger.InfoContext(ctx, "scheduled artifact refreshes", slog.Int("count", submitted))
	}
	return submitted, errors.Join(errs...)
}

// Start scans immediately and then every Interval until Stop is called or
// ctx is done.
func (s *RefreshScheduler) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()

		for {
			if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
				s.logger.ErrorContext(ctx, "refresh scan failed", slog.String("error", err.Error()))
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	s.logger.InfoContext(ctx, "refresh scheduler started",
		slog.Duration("interval", s.cfg.Interval),
		slog.Any("kinds", s.cfg.Kinds))
}

// Stop ends the scan loop and waits for it to exit.
func (s *RefreshScheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

// Pending returns the number of artifacts queued or being refreshed.
func (s *RefreshScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *RefreshScheduler) claim(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[key]; ok {
		return false
	}
	s.pending[key] = struct{}{}
	return true
}

func (s *RefreshScheduler) release(key string) {
	s.mu.Lock()
	delete(s.pending, key)
	s.mu.Unlock()
}
