package generation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/careerforge/careerforge-api/internal/generation"
	"github.com/careerforge/careerforge-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(attempts int) generation.RetryPolicy {
	return generation.RetryPolicy{MaxAttempts: attempts, BaseDelay: time.Millisecond, Multiplier: 2}
}

func TestWithRetry_RecoversFromRateLimit(t *testing.T) {
	t.Parallel()

	rateLimited := generation.NewProviderError(generation.KindRateLimited, "slow down", nil)
	provider := &mocks.MockProvider{Responses: []mocks.ProviderResponse{
		{Err: rateLimited},
		{Err: rateLimited},
		{Text: "ok"},
	}}

	text, attempts, err := fastPolicy(3).WithRetry(context.Background(), provider, generation.Prompt{Text: "p"})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, provider.Calls())
}

func TestWithRetry_MalformedIsNotRetried(t *testing.T) {
	t.Parallel()

	provider := &mocks.MockProvider{Responses: []mocks.ProviderResponse{
		{Err: generation.NewProviderError(generation.KindMalformed, "bad", nil)},
	}}

	_, attempts, err := fastPolicy(3).WithRetry(context.Background(), provider, generation.Prompt{Text: "p"})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, provider.Calls())
	assert.Equal(t, generation.KindMalformed, generation.ClassifyError(err))
}

func TestWithRetry_StopsAtMaxAttempts(t *testing.T) {
	t.Parallel()

	provider := &mocks.MockProvider{Responses: []mocks.ProviderResponse{
		{Err: generation.NewProviderError(generation.KindUnavailable, "down", nil)},
	}}

	_, attempts, err := fastPolicy(3).WithRetry(context.Background(), provider, generation.Prompt{Text: "p"})
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, provider.Calls())
}

func TestWithRetry_ClassifiesPlainErrors(t *testing.T) {
	t.Parallel()

	provider := &mocks.MockProvider{Responses: []mocks.ProviderResponse{
		{Err: errors.New("429 too many requests")},
		{Text: "done"},
	}}

	text, attempts, err := fastPolicy(3).WithRetry(context.Background(), provider, generation.Prompt{Text: "p"})
	require.NoError(t, err)
	assert.Equal(t, "done", text)
	assert.Equal(t, 2, attempts)
}

func TestWithRetry_HonorsDeadline(t *testing.T) {
	t.Parallel()

	provider := &mocks.MockProvider{Responses: []mocks.ProviderResponse{
		{Err: generation.NewProviderError(generation.KindUnavailable, "down", nil)},
	}}
	policy := generation.RetryPolicy{MaxAttempts: 5, BaseDelay: time.Second}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, attempts, err := policy.WithRetry(ctx, provider, generation.Prompt{Text: "p"})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRetryPolicy_Decide(t *testing.T) {
	t.Parallel()

	p := fastPolicy(3)
	transient := generation.NewProviderError(generation.KindTimeout, "t", nil)

	assert.Equal(t, generation.Retry, p.Decide(transient, 1))
	assert.Equal(t, generation.Retry, p.Decide(transient, 2))
	assert.Equal(t, generation.Abort, p.Decide(transient, 3))
	assert.Equal(t, generation.Abort, p.Decide(generation.NewProviderError(generation.KindUnknown, "u", nil), 1))
	assert.Equal(t, generation.Abort, p.Decide(&generation.ValidationError{Reason: generation.ReasonSchemaMismatch}, 1))
	assert.Equal(t, generation.Abort, p.Decide(nil, 1))
}

func TestRetryPolicy_Delay(t *testing.T) {
	t.Parallel()

	p := generation.RetryPolicy{BaseDelay: 500 * time.Millisecond, Multiplier: 2, MaxDelay: 3 * time.Second}
	assert.Equal(t, 500*time.Millisecond, p.Delay(1))
	assert.Equal(t, time.Second, p.Delay(2))
	assert.Equal(t, 2*time.Second, p.Delay(3))
	assert.Equal(t, 3*time.Second, p.Delay(4))

	p.Jitter = true
	for i := 0; i < 20; i++ {
		d := p.Delay(2)
		assert.GreaterOrEqual(t, d, 500*time.Millisecond)
		assert.Less(t, d, time.Second)
	}
}
