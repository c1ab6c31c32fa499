package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/careerforge/careerforge-api/internal/api"
	"github.com/careerforge/careerforge-api/internal/api/middleware"
	"github.com/careerforge/careerforge-api/internal/config"
	"github.com/careerforge/careerforge-api/internal/content"
	"github.com/careerforge/careerforge-api/internal/generation"
	"github.com/careerforge/careerforge-api/internal/platform/gemini"
	"github.com/careerforge/careerforge-api/internal/service"
	"github.com/careerforge/careerforge-api/internal/service/auth"
	"github.com/careerforge/careerforge-api/internal/store"
	"github.com/careerforge/careerforge-api/internal/task"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	storage *storage
	store   store.ArtifactStore

	provider      generation.Provider
	registry      *prometheus.Registry
	orchestrator  *generation.Orchestrator
	careerService service.CareerService
	verifier      auth.TokenVerifier

	taskRunner *task.TaskRunner
	scheduler  *task.RefreshScheduler
}

// appOption customizes application construction.
type appOption func(*application)

// withProvider replaces the Gemini client.
func withProvider(p generation.Provider) appOption {
	return func(app *application) { app.provider = p }
}

// newApplication creates a new application instance with all dependencies initialized.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	opts ...appOption,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}
	for _, opt := range opts {
		opt(app)
	}

	var err error
	app.verifier, err = auth.NewTokenVerifier(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token verifier: %w", err)
	}

	catalog, err := content.Load(cfg.LLM.PromptDir, cfg.Generation.TTLFor)
	if err != nil {
		return nil, fmt.Errorf("failed to load content catalog: %w", err)
	}

	if app.provider == nil {
		client, err := gemini.NewClient(ctx, cfg.LLM, logger.With("component", "llm_provider"))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
		}
		app.provider = client
		logger.Info("LLM provider initialized", "model", cfg.LLM.ModelName)
	}

	app.storage, err = openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact store: %w", err)
	}
	app.store = app.storage.store

	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app.orchestrator = generation.NewOrchestrator(
		app.store,
		app.provider,
		orchestratorConfig(cfg),
		logger,
		generation.WithMetrics(generation.NewMetrics(app.registry)),
	)

	app.careerService, err = service.NewCareerService(app.orchestrator, catalog, logger)
	if err != nil {
		app.storage.close()
		return nil, fmt.Errorf("failed to initialize career service: %w", err)
	}

	app.setupTasks()

	return app, nil
}

// orchestratorConfig maps configuration onto the orchestrator's policy.
func orchestratorConfig(cfg *config.Config) generation.Config {
	return generation.Config{
		FreshTTL:          cfg.Generation.FreshTTL,
		FallbackTTL:       cfg.Generation.FallbackTTL,
		GenerationTimeout: cfg.Generation.GenerationTimeout,
		Retry: generation.RetryPolicy{
			MaxAttempts: cfg.LLM.MaxAttempts,
			BaseDelay:   time.Duration(cfg.LLM.RetryBaseDelayMS) * time.Millisecond,
			Multiplier:  generation.DefaultMultiplier,
			MaxDelay:    time.Duration(cfg.LLM.RetryMaxDelayMS) * time.Millisecond,
			Jitter:      true,
		},
	}
}

// setupTasks creates the background refresh runner and scheduler.
func (app *application) setupTasks() {
	tc := app.config.Task

	app.taskRunner = task.NewTaskRunner(task.TaskRunnerConfig{
		WorkerCount: tc.WorkerCount,
		QueueSize:   tc.QueueSize,
		TaskTimeout: app.config.Generation.GenerationTimeout + 30*time.Second,
	}, app.logger)
	app.taskRunner.SetErrorHandler(func(t task.Task, err error) {
		app.logger.Warn("background refresh failed", "task_id", t.ID(), "error", err)
	})

	app.scheduler = task.NewRefreshScheduler(
		app.store,
		app.taskRunner,
		app.careerService,
		task.SchedulerConfig{
			Kinds:     []string{content.KindInsights},
			Interval:  time.Duration(tc.RefreshIntervalMinutes) * time.Minute,
			BatchSize: tc.RefreshBatchSize,
		},
		app.logger,
	)
}

// router builds the HTTP handler for the application.
func (app *application) router() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Handler:        api.NewCareerHandler(app.careerService, app.logger),
		Auth:           middleware.NewAuthMiddleware(app.verifier),
		Logger:         app.logger,
		Metrics:        promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}),
		HealthCheck:    app.storage.ping,
		RequestTimeout: app.config.Generation.GenerationTimeout + 15*time.Second,
	})
}

// startBackground starts the task runner and, when enabled, the refresh
// scheduler.
func (app *application) startBackground(ctx context.Context) {
	app.taskRunner.Start()
	if app.config.Task.RefreshEnabled {
		app.scheduler.Start(ctx)
	}
}

// cleanup stops background work, waits for in-flight generations and
// releases connections.
func (app *application) cleanup() {
	app.scheduler.Stop()
	app.taskRunner.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), app.shutdownTimeout())
	defer cancel()
	if err := app.orchestrator.Wait(ctx); err != nil {
		app.logger.Warn("in-flight generations did not finish before shutdown", "error", err)
	}

	app.storage.close()
}

func (app *application) shutdownTimeout() time.Duration {
	if app.config.Server.ShutdownTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(app.config.Server.ShutdownTimeoutSeconds) * time.Second
}
