package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerforge/careerforge-api/internal/api/middleware"
	"github.com/careerforge/careerforge-api/internal/api/shared"
	"github.com/careerforge/careerforge-api/internal/service/auth"
	"github.com/careerforge/careerforge-api/internal/testutils"
)

func newAuthedRouter(t *testing.T, svc *stubCareerService, health func(context.Context) error) http.Handler {
	t.Helper()
	verifier, err := auth.NewTokenVerifier(testutils.TestAuthConfig())
	require.NoError(t, err)

	return NewRouter(RouterConfig{
		Handler:     NewCareerHandler(svc, nil),
		Auth:        middleware.NewAuthMiddleware(verifier),
		Metrics:     http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("# metrics")) }),
		HealthCheck: health,
	})
}

func TestRouter_RequiresAuthentication(t *testing.T) {
	t.Parallel()

	svc := &stubCareerService{}
	router := newAuthedRouter(t, svc, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/insights/retail", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Empty(t, svc.lastIndustry)

	resp := decodeError(t, rr)
	assert.NotEmpty(t, resp.TraceID)
	assert.Equal(t, resp.TraceID, rr.Header().Get(shared.TraceIDHeader))
}

func TestRouter_AuthenticatedRequest(t *testing.T) {
	t.Parallel()

	svc := &stubCareerService{}
	router := newAuthedRouter(t, svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/insights/retail", nil)
	req.Header.Set("Authorization", testutils.GenerateAuthHeader(t, "user-1"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "retail", svc.lastIndustry)
}

func TestRouter_ExpiredToken(t *testing.T) {
	t.Parallel()

	svc := &stubCareerService{}
	req := httptest.NewRequest(http.MethodPost, "/api/quizzes", nil)
	req.Header.Set("Authorization", testutils.GenerateExpiredAuthHeader(t, "user-1"))
	rr := httptest.NewRecorder()
	newAuthedRouter(t, svc, nil).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Token expired", decodeError(t, rr).Error)
}

func TestRouter_PublicEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("health ok", func(t *testing.T) {
		t.Parallel()

		rr := httptest.NewRecorder()
		newAuthedRouter(t, &stubCareerService{}, func(context.Context) error { return nil }).
			ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"ok","store":"ok"}`, rr.Body.String())
	})

	t.Run("health failing store", func(t *testing.T) {
		t.Parallel()

		rr := httptest.NewRecorder()
		newAuthedRouter(t, &stubCareerService{}, func(context.Context) error { return errors.New("down") }).
			ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		t.Parallel()

		rr := httptest.NewRecorder()
		newAuthedRouter(t, &stubCareerService{}, nil).
			ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "# metrics", rr.Body.String())
	})
}
