package service

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strconv"
	"strings"

	"github.com/careerforge/careerforge-api/internal/content"
	"github.com/careerforge/careerforge-api/internal/domain"
)

// Key separators. Keys are compared verbatim, so every component is
// normalized before it is joined.
const (
	keySep   = ":"
	fieldSep = "\x00"
)

// NormalizeIndustry lowercases industry and collapses internal whitespace.
func NormalizeIndustry(industry string) string {
	return strings.Join(strings.Fields(strings.ToLower(industry)), " ")
}

// InsightsKey returns the cache key of the insight record for industry.
func InsightsKey(industry string) string {
	return content.KindInsights + keySep + NormalizeIndustry(industry)
}

// IndustryFromInsightsKey recovers the industry from an insights key.
func IndustryFromInsightsKey(key string) (string, bool) {
	industry, ok := strings.CutPrefix(key, content.KindInsights+keySep)
	if !ok || strings.TrimSpace(industry) == "" {
		return "", false
	}
	return industry, true
}

// QuizKey returns the cache key of a quiz. Skill order and case do not
// affect the key.
func QuizKey(industry string, skills []string) string {
	return content.KindQuiz + keySep + NormalizeIndustry(industry) + keySep + digest(normalizeSkills(skills)...)
}

// LetterKey returns the cache key of a cover letter for the given input.
func LetterKey(in content.LetterInput) string {
	return content.KindLetter + keySep + digest(
		strings.TrimSpace(in.CompanyName),
		strings.TrimSpace(in.JobTitle),
		strings.TrimSpace(in.JobDescription),
		NormalizeIndustry(in.Industry),
		strconv.Itoa(in.ExperienceYears),
		strings.Join(normalizeSkills(in.Skills), ","),
		strings.TrimSpace(in.Bio),
	)
}

// TipKey returns the cache key of an improvement tip for a set of wrong
// answers.
func TipKey(industry string, wrong []domain.QuestionResult) string {
	parts := []string{NormalizeIndustry(industry)}
	for _, r := range wrong {
		parts = append(parts, r.Question, r.Answer, r.UserAnswer)
	}
	return content.KindTip + keySep + digest(parts...)
}

func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func digest(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, fieldSep)))
	return hex.EncodeToString(sum[:])
}
