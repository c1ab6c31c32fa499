package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArtifact(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	payload := json.RawMessage(`{"growthRate":5.2}`)

	tests := []struct {
		name    string
		key     string
		kind    string
		payload json.RawMessage
		status  ArtifactStatus
		ttl     time.Duration
		wantErr error
	}{
		{"valid", "insights:healthcare", "insights", payload, ArtifactStatusFresh, time.Hour, nil},
		{"empty key", "", "insights", payload, ArtifactStatusFresh, time.Hour, ErrEmptyArtifactKey},
		{"empty kind", "k", "", payload, ArtifactStatusFresh, time.Hour, ErrEmptyArtifactKind},
		{"empty payload", "k", "insights", json.RawMessage("  "), ArtifactStatusFresh, time.Hour, ErrEmptyPayload},
		{"bad status", "k", "insights", payload, ArtifactStatus("cooked"), time.Hour, ErrInvalidArtifactStatus},
		{"negative ttl", "k", "insights", payload, ArtifactStatusFallback, -time.Minute, ErrInvalidRefreshWindow},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			a, err := NewArtifact(tc.key, tc.kind, tc.payload, tc.status, now, tc.ttl)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, a)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, now, a.CreatedAt)
			assert.Equal(t, now.Add(tc.ttl), a.NextRefreshAt)
		})
	}
}

func TestArtifact_Servable(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	a, err := NewArtifact("k", "quiz", json.RawMessage(`{}`), ArtifactStatusFresh, now, time.Hour)
	require.NoError(t, err)

	assert.True(t, a.Servable(now))
	assert.True(t, a.Servable(now.Add(59*time.Minute)))
	assert.False(t, a.Servable(now.Add(time.Hour)))
	assert.False(t, a.Degraded())
}

func TestArtifact_SupersedeLeavesOriginal(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	a, err := NewArtifact("k", "letter", json.RawMessage(`"Dear team"`), ArtifactStatusFresh, now, time.Minute)
	require.NoError(t, err)

	later := now.Add(2 * time.Hour)
	b := a.Supersede(ArtifactStatusStale, later, time.Hour)

	assert.Equal(t, ArtifactStatusFresh, a.Status)
	assert.Equal(t, now, a.CreatedAt)
	assert.Equal(t, ArtifactStatusStale, b.Status)
	assert.Equal(t, later.Add(time.Hour), b.NextRefreshAt)
	assert.True(t, b.Degraded())

	b.Payload[1] = 'X'
	text, err := a.Text()
	require.NoError(t, err)
	assert.Equal(t, "Dear team", text, "clone must not share payload bytes")
}

func TestArtifact_Decode(t *testing.T) {
	t.Parallel()

	a := &Artifact{Kind: "insights", Payload: json.RawMessage(`{"demandLevel":"HIGH","growthRate":3}`)}
	var insight IndustryInsight
	require.NoError(t, a.Decode(&insight))
	assert.Equal(t, DemandHigh, insight.DemandLevel)
	assert.InDelta(t, 3.0, insight.GrowthRate, 0.0001)

	bad := &Artifact{Kind: "insights", Payload: json.RawMessage(`[1,2`)}
	assert.ErrorIs(t, bad.Decode(&insight), ErrInvalidPayload)
}
