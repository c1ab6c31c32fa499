package content

import (
	_ "embed"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/careerforge/careerforge-api/internal/domain"
)

//go:embed fallback/bank.yaml
var embeddedBank []byte

// Bank is the static content served when the provider cannot produce a
// valid response.
type Bank struct {
	Insight domain.IndustryInsight `yaml:"insight"`
	Quiz    domain.Quiz            `yaml:"quiz"`
}

// LoadBank parses the embedded fallback bank and checks its shape.
func LoadBank() (*Bank, error) {
	return parseBank(embeddedBank)
}

func parseBank(data []byte) (*Bank, error) {
	var b Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBank, err)
	}
	b.Insight = normalizeInsight(b.Insight)

	if n := len(b.Quiz.Questions); n != QuizLength {
		return nil, fmt.Errorf("%w: quiz has %d questions, want %d", ErrInvalidBank, n, QuizLength)
	}
	for i, q := range b.Quiz.Questions {
		if len(q.Options) != OptionsPerQuestion {
			return nil, fmt.Errorf("%w: question %d has %d options", ErrInvalidBank, i, len(q.Options))
		}
		if !slices.Contains(q.Options, q.CorrectAnswer) {
			return nil, fmt.Errorf("%w: question %d answer is not an option", ErrInvalidBank, i)
		}
	}

	return &b, nil
}

// normalizeInsight replaces nil lists with empty ones so the encoded record
// always carries arrays.
func normalizeInsight(in domain.IndustryInsight) domain.IndustryInsight {
	if in.SalaryRanges == nil {
		in.SalaryRanges = []domain.SalaryRange{}
	}
	if in.TopSkills == nil {
		in.TopSkills = []string{}
	}
	if in.RecommendedSkills == nil {
		in.RecommendedSkills = []string{}
	}
	if in.KeyTrends == nil {
		in.KeyTrends = []string{}
	}
	if in.DemandLevel == "" {
		in.DemandLevel = domain.DemandMedium
	}
	if in.MarketOutlook == "" {
		in.MarketOutlook = domain.OutlookNeutral
	}
	return in
}
