package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/careerforge/careerforge-api/internal/domain"
	"github.com/careerforge/careerforge-api/internal/service"
)

// stubCareerService records the last call and returns canned results.
type stubCareerService struct {
	err error

	lastIndustry string
	lastQuiz     service.QuizRequest
	lastLetter   service.CoverLetterRequest
	lastTip      service.TipRequest
	invalidated  []string
	artifact     *domain.Artifact
}

func testArtifact(key, kind string, status domain.ArtifactStatus) *domain.Artifact {
	created := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	a, err := domain.NewArtifact(key, kind, json.RawMessage(`{}`), status, created, 24*time.Hour)
	if err != nil {
		panic(err)
	}
	return a
}

func (s *stubCareerService) artifactFor(key, kind string) *domain.Artifact {
	if s.artifact != nil {
		return s.artifact
	}
	return testArtifact(key, kind, domain.ArtifactStatusFresh)
}

func (s *stubCareerService) GetInsights(
	_ context.Context,
	industry string,
) (*service.Result[domain.IndustryInsight], error) {
	s.lastIndustry = industry
	if s.err != nil {
		return nil, s.err
	}
	return &service.Result[domain.IndustryInsight]{
		Artifact: s.artifactFor(service.InsightsKey(industry), "insights"),
		Data: domain.IndustryInsight{
			GrowthRate:  4.5,
			DemandLevel: "HIGH",
			TopSkills:   []string{"Go"},
		},
	}, nil
}

func (s *stubCareerService) RefreshInsights(
	ctx context.Context,
	industry string,
) (*service.Result[domain.IndustryInsight], error) {
	return s.GetInsights(ctx, industry)
}

func (s *stubCareerService) InvalidateInsights(_ context.Context, industry string) error {
	s.invalidated = append(s.invalidated, industry)
	return s.err
}

func (s *stubCareerService) GenerateQuiz(
	_ context.Context,
	req service.QuizRequest,
) (*service.Result[domain.Quiz], error) {
	s.lastQuiz = req
	if s.err != nil {
		return nil, s.err
	}
	return &service.Result[domain.Quiz]{
		Artifact: s.artifactFor(service.QuizKey(req.Industry, req.Skills), "quiz"),
		Data: domain.Quiz{Questions: []domain.QuizQuestion{{
			Question:      "What does HTTP stand for?",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: "a",
			Explanation:   "Hypertext Transfer Protocol.",
		}}},
	}, nil
}

func (s *stubCareerService) GenerateCoverLetter(
	_ context.Context,
	req service.CoverLetterRequest,
) (*service.Result[domain.CoverLetter], error) {
	s.lastLetter = req
	if s.err != nil {
		return nil, s.err
	}
	return &service.Result[domain.CoverLetter]{
		Artifact: s.artifactFor("letter:abc", "letter"),
		Data:     domain.CoverLetter{CompanyName: req.CompanyName, JobTitle: req.JobTitle, Content: "Dear team"},
	}, nil
}

func (s *stubCareerService) ImprovementTip(
	_ context.Context,
	req service.TipRequest,
) (*service.Result[domain.ImprovementTip], error) {
	s.lastTip = req
	if s.err != nil {
		return nil, s.err
	}
	return &service.Result[domain.ImprovementTip]{
		Artifact: s.artifactFor("tip:abc", "tip"),
		Data:     domain.ImprovementTip{Tip: "Review the fundamentals."},
	}, nil
}

func (s *stubCareerService) RefreshArtifact(context.Context, string, string) error {
	return s.err
}
