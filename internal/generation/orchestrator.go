package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/careerforge/careerforge-api/internal/domain"
	"github.com/careerforge/careerforge-api/internal/platform/logger"
	"github.com/careerforge/careerforge-api/internal/store"
	"golang.org/x/sync/singleflight"
)

// Orchestrator defaults
const (
	DefaultFreshTTL          = 7 * 24 * time.Hour
	DefaultGenerationTimeout = 90 * time.Second

	// persistTimeout bounds writes made after a generation, which may run
	// after the generation context expired.
	persistTimeout = 10 * time.Second
)

// Config controls the orchestrator's refresh policy.
type Config struct {
	// FreshTTL is how long generated content is served when the request
	// does not set RefreshAfter.
	FreshTTL time.Duration
	// FallbackTTL is how long fallback or stale content is served before
	// the provider is tried again.
	FallbackTTL time.Duration
	// GenerationTimeout bounds one shared generation, retries included,
	// independently of any caller's deadline.
	GenerationTimeout time.Duration
	Retry             RetryPolicy
}

// DefaultConfig returns the configuration used for zero fields.
func DefaultConfig() Config {
	return Config{
		FreshTTL:          DefaultFreshTTL,
		FallbackTTL:       DefaultFallbackTTL,
		GenerationTimeout: DefaultGenerationTimeout,
		Retry:             DefaultRetryPolicy(),
	}
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMetrics records orchestrator metrics on m.
func WithMetrics(m *Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithValidator replaces the response validator.
func WithValidator(v *Validator) Option {
	return func(o *Orchestrator) { o.validator = v }
}

// Orchestrator serves artifacts with cache-aside semantics and at most one
// concurrent generation per key.
type Orchestrator struct {
	store     store.ArtifactStore
	provider  Provider
	validator *Validator
	synth     Synthesizer
	cfg       Config
	metrics   *Metrics
	logger    *slog.Logger
	now       func() time.Time

	flights singleflight.Group
	running flightTracker
}

// flightTracker counts callers attached to a generation in progress. Unlike
// a sync.WaitGroup it may be incremented while another goroutine waits for it
// to drain.
type flightTracker struct {
	mu     sync.Mutex
	active int
	idle   chan struct{}
}

func (t *flightTracker) start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == 0 {
		t.idle = make(chan struct{})
	}
	t.active++
}

func (t *flightTracker) done() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active--
	if t.active == 0 {
		close(t.idle)
	}
}

// drained returns a channel closed once every generation running at the
// time of the call has finished.
func (t *flightTracker) drained() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == 0 {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return t.idle
}

// NewOrchestrator creates an Orchestrator. It panics if st or provider is nil.
func NewOrchestrator(
	st store.ArtifactStore,
	provider Provider,
	cfg Config,
	logger *slog.Logger,
	opts ...Option,
) *Orchestrator {
	if st == nil {
		panic("artifact store cannot be nil")
	}
	if provider == nil {
		panic("provider cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	def := DefaultConfig()
	if cfg.FreshTTL <= 0 {
		cfg.FreshTTL = def.FreshTTL
	}
	if cfg.FallbackTTL <= 0 {
		cfg.FallbackTTL = def.FallbackTTL
	}
	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = def.GenerationTimeout
	}

	o := &Orchestrator{
		store:    st,
		provider: provider,
		synth:    Synthesizer{TTL: cfg.FallbackTTL},
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "orchestrator")),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.validator == nil {
		o.validator = NewValidator(logger)
	}

	return o
}

// Obtain returns the artifact for key, generating it when nothing servable is
// cached. Provider and validation failures never surface: they degrade to
// stale or fallback content. Errors are returned only for invalid input, store
// failures, and caller cancellation.
func (o *Orchestrator) Obtain(ctx context.Context, key string, req GenerationRequest) (*domain.Artifact, error) {
	if err := o.check(key, req); err != nil {
		return nil, err
	}

	existing, err := o.find(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Servable(o.now()) {
		o.metrics.obtain(req.Kind, OutcomeHit)
		return existing, nil
	}

	return o.await(ctx, key, req, existing, false)
}

// Refresh regenerates the artifact for key even when the cached one is still
// servable. It is best-effort and non-destructive: if generation fails, a
// servable artifact is kept as is and an expired one is degraded to stale.
// Concurrent Obtain calls for key share the same generation.
func (o *Orchestrator) Refresh(ctx context.Context, key string, req GenerationRequest) (*domain.Artifact, error) {
	if err := o.check(key, req); err != nil {
		return nil, err
	}

	existing, err := o.find(ctx, key)
	if err != nil {
		return nil, err
	}

	return o.await(ctx, key, req, existing, true)
}

// Invalidate deletes the artifact for key. A generation already in flight
// for key is unaffected and still persists its result.
func (o *Orchestrator) Invalidate(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	if err := o.store.Delete(ctx, key); err != nil && !store.IsNotFoundError(err) {
		return fmt.Errorf("invalidate %q: %w", key, err)
	}

	logger.FromContextOrDefault(ctx, o.logger).InfoContext(ctx, "artifact invalidated",
		slog.String("key", key))
	return nil
}

// Wait blocks until all generations started so far have finished or ctx is
// done.
func (o *Orchestrator) Wait(ctx context.Context) error {
	select {
	case <-o.running.drained():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Orchestrator) check(key string, req GenerationRequest) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	return req.Validate()
}

func (o *Orchestrator) find(ctx context.Context, key string) (*domain.Artifact, error) {
	a, err := o.store.Find(ctx, key)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find artifact %q: %w", key, err)
	}
	return a, nil
}

// await joins or starts the generation for key and waits for it within the
// caller's context. The generation itself runs on a context detached from
// the caller, so it completes and is cached even if this caller gives up.
func (o *Orchestrator) await(
	ctx context.Context,
	key string,
	req GenerationRequest,
	existing *domain.Artifact,
	force bool,
) (*domain.Artifact, error) {
	log := logger.FromContextOrDefault(ctx, o.logger).With(slog.String("key", key))
	genCtx := logger.WithLogger(context.WithoutCancel(ctx), log)

	// Every caller holds the tracker until the shared flight resolves, so Wait
	// covers a flight from the moment it is registered.
	o.running.start()

	// started is written by the flight goroutine before the result is sent,
	// so reading it after the receive is safe.
	started := false
	flight := o.flights.DoChan(key, func() (any, error) {
		started = true
		return o.generate(genCtx, key, req, force)
	})

	ch := make(chan singleflight.Result, 1)
	go func() {
		res := <-flight
		o.running.done()
		ch <- res
	}()

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared && !started {
			o.metrics.obtain(req.Kind, OutcomeShared)
		}
		return res.Val.(*domain.Artifact).Clone(), nil

	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, ctx.Err()
		}
		if existing != nil {
			log.WarnContext(ctx, "deadline exceeded while generating, serving cached artifact",
				slog.String("status", string(existing.Status)))
			o.metrics.obtain(req.Kind, OutcomeDeadlineStale)
			return existing, nil
		}
		log.WarnContext(ctx, "deadline exceeded while generating, serving unpersisted fallback")
		o.metrics.obtain(req.Kind, OutcomeDeadlineFallback)
		return o.synth.Synthesize(key, req, o.now()), nil
	}
}

// generate runs one shared generation for key and persists its outcome.
func (o *Orchestrator) generate(
	ctx context.Context,
	key string,
	req GenerationRequest,
	force bool,
) (*domain.Artifact, error) {
	log := logger.FromContextOrDefault(ctx, o.logger)
	ctx, cancel := context.WithTimeout(ctx, o.cfg.GenerationTimeout)
	defer cancel()

	// A previous flight may have persisted a result between the caller's
	// lookup and this flight starting.
	current, err := o.find(ctx, key)
	if err != nil {
		return nil, err
	}
	if !force && current != nil && current.Servable(o.now()) {
		o.metrics.obtain(req.Kind, OutcomeHit)
		return current, nil
	}

	started := o.now()
	finished := o.metrics.generationStarted()
	defer func() { finished(req.Kind, o.now().Sub(started).Seconds()) }()

	instrumented := ProviderFunc(func(ctx context.Context, p Prompt) (string, error) {
		text, err := o.provider.Generate(ctx, p)
		o.metrics.attempt(req.Kind, err)
		return text, err
	})

	prompt := Prompt{Text: req.Prompt, JSON: req.Schema.Kind == SchemaObject}
	text, attempts, genErr := o.cfg.Retry.WithRetry(ctx, instrumented, prompt)
	if genErr == nil {
		payload, verr := o.validator.Validate(text, req.Schema)
		if verr == nil {
			return o.persistFresh(ctx, key, req, payload, attempts)
		}

		var ve *ValidationError
		if errors.As(verr, &ve) {
			o.metrics.validationFailure(req.Kind, ve.Reason)
		}
		genErr = verr
	}

	log.WarnContext(ctx, "generation failed, degrading",
		slog.Int("attempts", attempts),
		slog.String("error", genErr.Error()))

	return o.degrade(ctx, key, req, current)
}

func (o *Orchestrator) persistFresh(
	ctx context.Context,
	key string,
	req GenerationRequest,
	payload []byte,
	attempts int,
) (*domain.Artifact, error) {
	ttl := req.RefreshAfter
	if ttl <= 0 {
		ttl = o.cfg.FreshTTL
	}

	artifact, err := domain.NewArtifact(key, req.Kind, payload, domain.ArtifactStatusFresh, o.now(), ttl)
	if err != nil {
		return nil, fmt.Errorf("build artifact %q: %w", key, err)
	}

	if err := o.upsert(ctx, artifact); err != nil {
		return nil, err
	}

	o.metrics.obtain(req.Kind, OutcomeGenerated)
	logger.FromContextOrDefault(ctx, o.logger).InfoContext(ctx, "artifact generated",
		slog.String("kind", req.Kind),
		slog.Int("attempts", attempts),
		slog.Time("next_refresh_at", artifact.NextRefreshAt))
	return artifact, nil
}

// degrade resolves a failed generation. A servable artifact is kept as is,
// previously generated content is re-persisted as stale, and anything else
// is replaced by fallback content. Both degraded forms are retried after
// FallbackTTL.
func (o *Orchestrator) degrade(
	ctx context.Context,
	key string,
	req GenerationRequest,
	current *domain.Artifact,
) (*domain.Artifact, error) {
	now := o.now()

	if current != nil && current.Servable(now) {
		return current, nil
	}

	var artifact *domain.Artifact
	outcome := OutcomeFallback
	if current != nil && current.Status != domain.ArtifactStatusFallback {
		artifact = current.Supersede(domain.ArtifactStatusStale, now, o.cfg.FallbackTTL)
		outcome = OutcomeStale
	} else {
		artifact = o.synth.Synthesize(key, req, now)
	}

	if err := o.upsert(ctx, artifact); err != nil {
		return nil, err
	}

	o.metrics.obtain(req.Kind, outcome)
	return artifact, nil
}

func (o *Orchestrator) upsert(ctx context.Context, a *domain.Artifact) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if err := o.store.Upsert(ctx, a); err != nil {
		return fmt.Errorf("persist artifact %q: %w", a.Key, err)
	}
	return nil
}
