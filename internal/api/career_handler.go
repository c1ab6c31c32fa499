package api

import (
	"log/slog"
	"net/http"

	"github.com/careerforge/careerforge-api/internal/api/shared"
	"github.com/careerforge/careerforge-api/internal/platform/logger"
	"github.com/careerforge/careerforge-api/internal/service"
)

// CareerHandler handles the career content endpoints.
type CareerHandler struct {
	careerService service.CareerService
	logger        *slog.Logger
}

// NewCareerHandler creates a new CareerHandler
func NewCareerHandler(careerService service.CareerService, logger *slog.Logger) *CareerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CareerHandler{
		careerService: careerService,
		logger:        logger.With(slog.String("component", "career_handler")),
	}
}

// GetInsights handles GET /api/insights/{industry}
func (h *CareerHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	industry, err := getIndustryParam(r)
	if err != nil {
		HandleAPIError(w, r, err, "Industry is required")
		return
	}

	res, err := h.careerService.GetInsights(r.Context(), industry)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toArtifactResponse(res))
}

// RefreshInsights handles POST /api/insights/{industry}/refresh
func (h *CareerHandler) RefreshInsights(w http.ResponseWriter, r *http.Request) {
	industry, err := getIndustryParam(r)
	if err != nil {
		HandleAPIError(w, r, err, "Industry is required")
		return
	}

	res, err := h.careerService.RefreshInsights(r.Context(), industry)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if res.Artifact.Degraded() {
		logger.FromContextOrDefault(r.Context(), h.logger).
			WarnContext(r.Context(), "refresh served degraded insights",
				slog.String("key", res.Artifact.Key),
				slog.String("status", string(res.Artifact.Status)))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toArtifactResponse(res))
}

// InvalidateInsights handles DELETE /api/insights/{industry}
func (h *CareerHandler) InvalidateInsights(w http.ResponseWriter, r *http.Request) {
	industry, err := getIndustryParam(r)
	if err != nil {
		HandleAPIError(w, r, err, "Industry is required")
		return
	}

	if err := h.careerService.InvalidateInsights(r.Context(), industry); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GenerateQuiz handles POST /api/quizzes
func (h *CareerHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	var req service.QuizRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.careerService.GenerateQuiz(r.Context(), req)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toArtifactResponse(res))
}

// ImprovementTip handles POST /api/quizzes/improvement-tip
func (h *CareerHandler) ImprovementTip(w http.ResponseWriter, r *http.Request) {
	var req service.TipRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.careerService.ImprovementTip(r.Context(), req)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toArtifactResponse(res))
}

// GenerateCoverLetter handles POST /api/cover-letters
func (h *CareerHandler) GenerateCoverLetter(w http.ResponseWriter, r *http.Request) {
	var req service.CoverLetterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.careerService.GenerateCoverLetter(r.Context(), req)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toArtifactResponse(res))
}
