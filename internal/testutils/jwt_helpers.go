package testutils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/careerforge/careerforge-api/internal/config"
)

// Test JWT values. TestJWTSecret must never be used in production.
const (
	TestJWTSecret     = "test-jwt-secret-that-is-32-chars-long"
	TestTokenLifetime = 15 * time.Minute
	TestSubject       = "test-user"
)

// TestAuthConfig returns an auth configuration verifying tokens signed
// with TestJWTSecret.
func TestAuthConfig() config.AuthConfig {
	return config.AuthConfig{JWTSecret: TestJWTSecret}
}

// SignToken signs claims with secret using HS256.
func SignToken(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err, "failed to sign test token")
	return token
}

// GenerateAuthHeader returns an Authorization header value carrying a
// valid token for subject, signed with TestJWTSecret.
func GenerateAuthHeader(t *testing.T, subject string) string {
	t.Helper()

	now := time.Now()
	return "Bearer " + SignToken(t, TestJWTSecret, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TestTokenLifetime)),
		ID:        uuid.NewString(),
	})
}

// GenerateExpiredAuthHeader returns an Authorization header value whose
// token expired well beyond any clock skew allowance.
func GenerateExpiredAuthHeader(t *testing.T, subject string) string {
	t.Helper()

	past := time.Now().Add(-2 * time.Hour)
	return "Bearer " + SignToken(t, TestJWTSecret, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(past),
		ExpiresAt: jwt.NewNumericDate(past.Add(TestTokenLifetime)),
	})
}
