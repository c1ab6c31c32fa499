package generation_test

import (
	"testing"
	"time"

	"github.com/careerforge/careerforge-api/internal/domain"
	"github.com/careerforge/careerforge-api/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesize(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	a := generation.Synthesizer{}.Synthesize("healthcare", insightRequest(), now)

	require.NoError(t, a.Validate())
	assert.Equal(t, domain.ArtifactStatusFallback, a.Status)
	assert.Equal(t, "insights", a.Kind)
	assert.Equal(t, now.Add(generation.DefaultFallbackTTL), a.NextRefreshAt)

	again := generation.Synthesizer{}.Synthesize("healthcare", insightRequest(), now)
	assert.Equal(t, a, again, "synthesis is deterministic")

	_, err := generation.NewValidator(nil).Validate(string(a.Payload), insightSchema())
	assert.NoError(t, err, "fallback payload satisfies its schema")
}

func TestMustMarshal(t *testing.T) {
	t.Parallel()

	assert.JSONEq(t, `{"a":1}`, string(generation.MustMarshal(map[string]int{"a": 1})))
	assert.Panics(t, func() { generation.MustMarshal(make(chan int)) })
}
