package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/careerforge/careerforge-api/internal/content"
	"github.com/careerforge/careerforge-api/internal/domain"
	"github.com/careerforge/careerforge-api/internal/generation"
)

// Generator obtains generated artifacts. *generation.Orchestrator
// implements it.
type Generator interface {
	Obtain(ctx context.Context, key string, req generation.GenerationRequest) (*domain.Artifact, error)
	Refresh(ctx context.Context, key string, req generation.GenerationRequest) (*domain.Artifact, error)
	Invalidate(ctx context.Context, key string) error
}

// Result is a decoded payload together with the artifact it came from.
type Result[T any] struct {
	Artifact *domain.Artifact
	Data     T
}

// QuizRequest asks for an interview quiz.
type QuizRequest struct {
	Industry string   `json:"industry" validate:"max=100"`
	Skills   []string `json:"skills"   validate:"max=50,dive,max=100"`
}

// CoverLetterRequest asks for a cover letter.
type CoverLetterRequest struct {
	CompanyName     string   `json:"company_name"     validate:"required,max=200"`
	JobTitle        string   `json:"job_title"        validate:"required,max=200"`
	JobDescription  string   `json:"job_description"  validate:"required,max=10000"`
	Industry        string   `json:"industry"         validate:"max=100"`
	ExperienceYears int      `json:"experience_years" validate:"gte=0,lte=80"`
	Skills          []string `json:"skills"           validate:"max=50,dive,max=100"`
	Bio             string   `json:"bio"              validate:"max=5000"`
}

// TipRequest asks for an improvement tip for a graded quiz.
type TipRequest struct {
	Industry string                  `json:"industry"  validate:"max=100"`
	Results  []domain.QuestionResult `json:"results"   validate:"required,min=1,max=50,dive"`
}

// CareerService provides the career content operations.
type CareerService interface {
	// GetInsights returns the insight record for an industry.
	GetInsights(ctx context.Context, industry string) (*Result[domain.IndustryInsight], error)

	// RefreshInsights regenerates the insight record, keeping the current one
	// when generation fails.
	RefreshInsights(ctx context.Context, industry string) (*Result[domain.IndustryInsight], error)

	// InvalidateInsights forgets the insight record so the next read
	// regenerates it.
	InvalidateInsights(ctx context.Context, industry string) error

	// GenerateQuiz returns a quiz for the industry and skills.
	GenerateQuiz(ctx context.Context, req QuizRequest) (*Result[domain.Quiz], error)

	// GenerateCoverLetter returns a cover letter for the position.
	GenerateCoverLetter(ctx context.Context, req CoverLetterRequest) (*Result[domain.CoverLetter], error)

	// ImprovementTip returns a study tip for the wrongly answered questions.
	ImprovementTip(ctx context.Context, req TipRequest) (*Result[domain.ImprovementTip], error)

	// RefreshArtifact regenerates the artifact stored under key. Only kinds
	// whose request can be rebuilt from the key are supported.
	RefreshArtifact(ctx context.Context, kind, key string) error
}

// careerServiceImpl implements the CareerService interface
type careerServiceImpl struct {
	generator Generator
	catalog   *content.Catalog
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewCareerService creates a new CareerService.
// It returns an error if any required dependency is nil.
func NewCareerService(generator Generator, catalog *content.Catalog, logger *slog.Logger) (CareerService, error) {
	if generator == nil {
		return nil, fmt.Errorf("generator cannot be nil")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &careerServiceImpl{
		generator: generator,
		catalog:   catalog,
		validate:  validator.New(),
		logger:    logger.With(slog.String("component", "career_service")),
	}, nil
}

func (s *careerServiceImpl) GetInsights(
	ctx context.Context,
	industry string,
) (*Result[domain.IndustryInsight], error) {
	key, req, err := s.insightsRequest(industry)
	if err != nil {
		return nil, err
	}

	a, err := s.generator.Obtain(ctx, key, req)
	if err != nil {
		return nil, NewCareerServiceError("get_insights", "failed to obtain insights", err)
	}

	return decodeResult[domain.IndustryInsight](a)
}

func (s *careerServiceImpl) RefreshInsights(
	ctx context.Context,
	industry string,
) (*Result[domain.IndustryInsight], error) {
	key, req, err := s.insightsRequest(industry)
	if err != nil {
		return nil, err
	}

	a, err := s.generator.Refresh(ctx, key, req)
	if err != nil {
		return nil, NewCareerServiceError("refresh_insights", "failed to refresh insights", err)
	}

	s.logger.InfoContext(ctx, "refreshed industry insights",
		slog.String("key", key),
		slog.String("status", string(a.Status)))

	return decodeResult[domain.IndustryInsight](a)
}

func (s *careerServiceImpl) InvalidateInsights(ctx context.Context, industry string) error {
	if NormalizeIndustry(industry) == "" {
		return fmt.Errorf("%w: industry is empty", ErrInvalidInput)
	}

	key := InsightsKey(industry)
	if err := s.generator.Invalidate(ctx, key); err != nil {
		return NewCareerServiceError("invalidate_insights", "failed to invalidate insights", err)
	}

	s.logger.InfoContext(ctx, "invalidated industry insights", slog.String("key", key))
	return nil
}

func (s *careerServiceImpl) GenerateQuiz(ctx context.Context, in QuizRequest) (*Result[domain.Quiz], error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	req, err := s.catalog.Quiz(content.QuizInput{
		Industry: NormalizeIndustry(in.Industry),
		Skills:   normalizeSkills(in.Skills),
	})
	if err != nil {
		return nil, err
	}

	industry := NormalizeIndustry(in.Industry)
	if industry == "" {
		industry = content.DefaultQuizIndustry
	}

	a, err := s.generator.Obtain(ctx, QuizKey(industry, in.Skills), req)
	if err != nil {
		return nil, NewCareerServiceError("generate_quiz", "failed to obtain quiz", err)
	}

	return decodeResult[domain.Quiz](a)
}

func (s *careerServiceImpl) GenerateCoverLetter(
	ctx context.Context,
	in CoverLetterRequest,
) (*Result[domain.CoverLetter], error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	input := content.LetterInput{
		CompanyName:     in.CompanyName,
		JobTitle:        in.JobTitle,
		JobDescription:  in.JobDescription,
		Industry:        in.Industry,
		ExperienceYears: in.ExperienceYears,
		Skills:          in.Skills,
		Bio:             in.Bio,
	}

	req, err := s.catalog.Letter(input)
	if err != nil {
		return nil, err
	}

	a, err := s.generator.Obtain(ctx, LetterKey(input), req)
	if err != nil {
		return nil, NewCareerServiceError("generate_cover_letter", "failed to obtain cover letter", err)
	}

	text, err := a.Text()
	if err != nil {
		return nil, NewCareerServiceError("generate_cover_letter", "failed to decode cover letter", err)
	}

	return &Result[domain.CoverLetter]{
		Artifact: a,
		Data: domain.CoverLetter{
			CompanyName: strings.TrimSpace(in.CompanyName),
			JobTitle:    strings.TrimSpace(in.JobTitle),
			Content:     text,
		},
	}, nil
}

func (s *careerServiceImpl) ImprovementTip(
	ctx context.Context,
	in TipRequest,
) (*Result[domain.ImprovementTip], error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	var wrong []domain.QuestionResult
	for _, r := range in.Results {
		if !r.IsCorrect() {
			wrong = append(wrong, r)
		}
	}
	if len(wrong) == 0 {
		return nil, ErrNoWrongAnswers
	}

	req, err := s.catalog.Tip(content.TipInput{Industry: in.Industry, Wrong: wrong})
	if err != nil {
		return nil, err
	}

	a, err := s.generator.Obtain(ctx, TipKey(in.Industry, wrong), req)
	if err != nil {
		return nil, NewCareerServiceError("improvement_tip", "failed to obtain improvement tip", err)
	}

	text, err := a.Text()
	if err != nil {
		return nil, NewCareerServiceError("improvement_tip", "failed to decode improvement tip", err)
	}

	return &Result[domain.ImprovementTip]{Artifact: a, Data: domain.ImprovementTip{Tip: text}}, nil
}

func (s *careerServiceImpl) RefreshArtifact(ctx context.Context, kind, key string) error {
	if kind != content.KindInsights {
		return fmt.Errorf("%w: kind %q", ErrNotRefreshable, kind)
	}

	industry, ok := IndustryFromInsightsKey(key)
	if !ok {
		return fmt.Errorf("%w: malformed insights key %q", ErrNotRefreshable, key)
	}

	_, err := s.RefreshInsights(ctx, industry)
	return err
}

func (s *careerServiceImpl) insightsRequest(industry string) (string, generation.GenerationRequest, error) {
	normalized := NormalizeIndustry(industry)
	if normalized == "" {
		return "", generation.GenerationRequest{}, fmt.Errorf("%w: industry is empty", ErrInvalidInput)
	}
	if len(normalized) > 100 {
		return "", generation.GenerationRequest{}, fmt.Errorf("%w: industry is too long", ErrInvalidInput)
	}

	req, err := s.catalog.Insights(normalized)
	if err != nil {
		return "", generation.GenerationRequest{}, err
	}

	return InsightsKey(normalized), req, nil
}

func (s *careerServiceImpl) check(v any) error {
	if err := s.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed on %s", ErrInvalidInput, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func decodeResult[T any](a *domain.Artifact) (*Result[T], error) {
	var data T
	if err := a.Decode(&data); err != nil {
		return nil, NewCareerServiceError("decode", "stored payload does not match its kind", err)
	}
	return &Result[T]{Artifact: a, Data: data}, nil
}
