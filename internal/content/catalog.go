package content

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/careerforge/careerforge-api/internal/domain"
	"github.com/careerforge/careerforge-api/internal/generation"
)

// DefaultQuizIndustry is used when a quiz is requested without an industry.
const DefaultQuizIndustry = "software engineering"

// TTLFunc returns the fresh TTL for a content kind. Zero selects the
// orchestrator default.
type TTLFunc func(kind string) time.Duration

// QuizInput describes the candidate a quiz is generated for.
type QuizInput struct {
	Industry string
	Skills   []string
}

// LetterInput describes the position and candidate for a cover letter.
type LetterInput struct {
	CompanyName     string
	JobTitle        string
	JobDescription  string
	Industry        string
	ExperienceYears int
	Skills          []string
	Bio             string
}

// TipInput carries the questions a user answered wrongly.
type TipInput struct {
	Industry string
	Wrong    []domain.QuestionResult
}

// Catalog builds generation requests for every content kind.
type Catalog struct {
	prompts *Prompts
	bank    *Bank
	ttl     TTLFunc
}

// NewCatalog creates a Catalog from parsed prompts and a fallback bank.
// A nil ttl leaves every refresh interval to the orchestrator.
func NewCatalog(prompts *Prompts, bank *Bank, ttl TTLFunc) *Catalog {
	if ttl == nil {
		ttl = func(string) time.Duration { return 0 }
	}
	return &Catalog{prompts: prompts, bank: bank, ttl: ttl}
}

// Load parses the embedded prompts (overridden from promptDir when set) and
// the embedded fallback bank.
func Load(promptDir string, ttl TTLFunc) (*Catalog, error) {
	prompts, err := LoadPrompts(promptDir)
	if err != nil {
		return nil, err
	}

	bank, err := LoadBank()
	if err != nil {
		return nil, err
	}

	return NewCatalog(prompts, bank, ttl), nil
}

// Insights returns the request for the insight record of industry.
func (c *Catalog) Insights(industry string) (generation.GenerationRequest, error) {
	industry = strings.TrimSpace(industry)
	if industry == "" {
		return generation.GenerationRequest{}, fmt.Errorf("%w: industry is empty", ErrInvalidInput)
	}

	prompt, err := c.prompts.Render(promptInsights, map[string]any{
		"Industry":        industry,
		"MaxSalaryRanges": MaxSalaryRanges,
	})
	if err != nil {
		return generation.GenerationRequest{}, err
	}

	payload := generation.MustMarshal(c.bank.Insight)
	return c.request(KindInsights, prompt, InsightSchema(), constant(payload)), nil
}

// Quiz returns the request for an interview quiz.
func (c *Catalog) Quiz(in QuizInput) (generation.GenerationRequest, error) {
	industry := strings.TrimSpace(in.Industry)
	if industry == "" {
		industry = DefaultQuizIndustry
	}

	prompt, err := c.prompts.Render(promptQuiz, map[string]any{
		"Industry": industry,
		"Skills":   in.Skills,
		"Count":    QuizLength,
		"Options":  OptionsPerQuestion,
	})
	if err != nil {
		return generation.GenerationRequest{}, err
	}

	payload := generation.MustMarshal(c.bank.Quiz)
	return c.request(KindQuiz, prompt, QuizSchema(), constant(payload)), nil
}

// Letter returns the request for a cover letter. Its fallback is a letter
// skeleton filled from the input.
func (c *Catalog) Letter(in LetterInput) (generation.GenerationRequest, error) {
	if strings.TrimSpace(in.CompanyName) == "" ||
		strings.TrimSpace(in.JobTitle) == "" ||
		strings.TrimSpace(in.JobDescription) == "" {
		return generation.GenerationRequest{}, fmt.Errorf(
			"%w: company name, job title and job description are required", ErrInvalidInput)
	}

	prompt, err := c.prompts.Render(promptLetter, letterData(in))
	if err != nil {
		return generation.GenerationRequest{}, err
	}

	fallback, err := c.prompts.Render(promptLetterFallback, letterData(in))
	if err != nil {
		return generation.GenerationRequest{}, err
	}

	return c.request(KindLetter, prompt, LetterSchema(), constant(generation.MustMarshal(fallback))), nil
}

// Tip returns the request for an improvement tip.
func (c *Catalog) Tip(in TipInput) (generation.GenerationRequest, error) {
	if len(in.Wrong) == 0 {
		return generation.GenerationRequest{}, fmt.Errorf("%w: no wrong answers", ErrInvalidInput)
	}

	industry := strings.TrimSpace(in.Industry)
	if industry == "" {
		industry = DefaultQuizIndustry
	}

	prompt, err := c.prompts.Render(promptTip, map[string]any{
		"Industry": industry,
		"Wrong":    in.Wrong,
	})
	if err != nil {
		return generation.GenerationRequest{}, err
	}

	fallback, err := c.prompts.Render(promptTipFallback, map[string]any{
		"Topic": industry + " fundamentals",
	})
	if err != nil {
		return generation.GenerationRequest{}, err
	}

	return c.request(KindTip, prompt, TipSchema(), constant(generation.MustMarshal(fallback))), nil
}

func (c *Catalog) request(
	kind, prompt string,
	schema generation.ResponseSchema,
	fallback generation.FallbackPolicy,
) generation.GenerationRequest {
	return generation.GenerationRequest{
		Kind:         kind,
		Prompt:       prompt,
		Schema:       schema,
		Fallback:     fallback,
		RefreshAfter: c.ttl(kind),
	}
}

func letterData(in LetterInput) map[string]any {
	return map[string]any{
		"CompanyName":     strings.TrimSpace(in.CompanyName),
		"JobTitle":        strings.TrimSpace(in.JobTitle),
		"JobDescription":  strings.TrimSpace(in.JobDescription),
		"Industry":        strings.TrimSpace(in.Industry),
		"ExperienceYears": in.ExperienceYears,
		"Skills":          in.Skills,
		"Bio":             strings.TrimSpace(in.Bio),
		"TargetWords":     LetterTargetWords,
	}
}

// constant returns a policy that serves a copy of payload for every key.
func constant(payload json.RawMessage) generation.FallbackPolicy {
	return func(string) json.RawMessage {
		return append(json.RawMessage(nil), payload...)
	}
}
