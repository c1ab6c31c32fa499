package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/careerforge/careerforge-api/internal/api/middleware"
	"github.com/careerforge/careerforge-api/internal/api/shared"
)

// RouterConfig holds the dependencies of the HTTP router.
type RouterConfig struct {
	Handler *CareerHandler
	Auth    *middleware.AuthMiddleware
	Logger  *slog.Logger

	// Metrics serves /metrics when set.
	Metrics http.Handler

	// HealthCheck reports the backing store's health. Nil means always healthy.
	HealthCheck func(ctx context.Context) error

	// RequestTimeout bounds each API request. Zero disables the limit.
	RequestTimeout time.Duration
}

// NewRouter builds the HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Trace(cfg.Logger))
	r.Use(chimw.Recoverer)

	r.Get("/health", healthHandler(cfg.HealthCheck))
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		if cfg.RequestTimeout > 0 {
			r.Use(chimw.Timeout(cfg.RequestTimeout))
		}
		r.Use(cfg.Auth.Authenticate)

		r.Get("/insights/{industry}", cfg.Handler.GetInsights)
		r.Delete("/insights/{industry}", cfg.Handler.InvalidateInsights)
		r.Post("/insights/{industry}/refresh", cfg.Handler.RefreshInsights)

		r.Post("/quizzes", cfg.Handler.GenerateQuiz)
		r.Post("/quizzes/improvement-tip", cfg.Handler.ImprovementTip)

		r.Post("/cover-letters", cfg.Handler.GenerateCoverLetter)
	})

	return r
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check == nil {
			shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := check(ctx); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Store unavailable", err)
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok", Store: "ok"})
	}
}
