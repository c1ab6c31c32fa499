package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/careerforge/careerforge-api/internal/api/shared"
	"github.com/careerforge/careerforge-api/internal/service"
)

// getIndustryParam extracts the industry path parameter. Path escapes such
// as "real%20estate" are decoded.
func getIndustryParam(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "industry")
	industry, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("%w: industry is not a valid path segment", service.ErrInvalidInput)
	}
	if strings.TrimSpace(industry) == "" {
		return "", fmt.Errorf("%w: industry is required", service.ErrInvalidInput)
	}
	return industry, nil
}

// decodeAndValidate decodes the JSON body into v and validates it. It
// writes a 400 response and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}
