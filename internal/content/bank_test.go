package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerforge/careerforge-api/internal/domain"
)

func TestLoadBank(t *testing.T) {
	t.Parallel()

	b, err := LoadBank()
	require.NoError(t, err)
	assert.Len(t, b.Quiz.Questions, QuizLength)
	assert.Equal(t, "MEDIUM", b.Insight.DemandLevel)
	assert.Equal(t, "NEUTRAL", b.Insight.MarketOutlook)
	assert.NotNil(t, b.Insight.SalaryRanges)
	assert.NotNil(t, b.Insight.KeyTrends)
}

func TestParseBank_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"malformed yaml", "quiz: [unclosed"},
		{"short quiz", "quiz:\n  questions:\n    - question: q\n      options: [a, b, c, d]\n      correctAnswer: a\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := parseBank([]byte(tc.data))
			assert.ErrorIs(t, err, ErrInvalidBank)
		})
	}
}

func TestNormalizeInsight_FillsNeutralValues(t *testing.T) {
	t.Parallel()

	in := normalizeInsight(domain.IndustryInsight{})
	assert.Equal(t, "MEDIUM", in.DemandLevel)
	assert.Empty(t, in.TopSkills)
	assert.NotNil(t, in.RecommendedSkills)
}
