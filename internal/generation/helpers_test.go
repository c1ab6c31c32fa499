package generation_test

import (
	"encoding/json"
	"strings"

	"github.com/careerforge/careerforge-api/internal/generation"
)

func insightSchema() generation.ResponseSchema {
	return generation.ResponseSchema{
		Name: "test_insight",
		Kind: generation.SchemaObject,
		Fields: []generation.FieldSpec{
			{Name: "growthRate", Type: generation.FieldNumber, Default: 0.0},
			{
				Name:    "demandLevel",
				Type:    generation.FieldEnum,
				Enum:    []string{"HIGH", "MEDIUM", "LOW"},
				Default: "MEDIUM",
			},
			{Name: "topSkills", Type: generation.FieldStringList, Length: &generation.LengthRule{Max: 5}},
			{
				Name:    "recommendedSkills",
				Aliases: []string{"recommendations"},
				Type:    generation.FieldStringList,
			},
			{
				Name: "salaryRanges",
				Type: generation.FieldObjectList,
				Item: &generation.ResponseSchema{
					Name: "test_salary",
					Kind: generation.SchemaObject,
					Fields: []generation.FieldSpec{
						{Name: "role", Type: generation.FieldString, Required: true},
						{Name: "median", Type: generation.FieldNumber},
					},
				},
			},
		},
	}
}

func questionSchema() generation.ResponseSchema {
	return generation.ResponseSchema{
		Name: "test_question",
		Kind: generation.SchemaObject,
		Fields: []generation.FieldSpec{
			{Name: "question", Type: generation.FieldString, Required: true},
			{Name: "options", Type: generation.FieldStringList, Required: true, Length: &generation.LengthRule{Min: 4, Max: 4}},
			{Name: "correctAnswer", Type: generation.FieldString, Required: true, MatchOf: "options"},
			{Name: "explanation", Type: generation.FieldString, Default: ""},
		},
	}
}

func quizSchema() generation.ResponseSchema {
	item := questionSchema()
	return generation.ResponseSchema{
		Name: "test_quiz",
		Kind: generation.SchemaObject,
		Fields: []generation.FieldSpec{
			{
				Name:     "questions",
				Type:     generation.FieldObjectList,
				Required: true,
				Item:     &item,
				Length:   &generation.LengthRule{Min: 2, Max: 2},
			},
		},
	}
}

func letterSchema() generation.ResponseSchema {
	return generation.ResponseSchema{
		Name: "test_letter",
		Kind: generation.SchemaText,
		Text: generation.TextRules{TargetWords: 20},
	}
}

func insightFallback(string) json.RawMessage {
	return generation.MustMarshal(map[string]any{
		"growthRate":        0.0,
		"demandLevel":       "MEDIUM",
		"topSkills":         []string{"Communication"},
		"recommendedSkills": []string{},
		"salaryRanges":      []any{},
	})
}

func insightRequest() generation.GenerationRequest {
	return generation.GenerationRequest{
		Kind:     "insights",
		Prompt:   "Analyze the healthcare industry.",
		Schema:   insightSchema(),
		Fallback: insightFallback,
	}
}

func letterRequest() generation.GenerationRequest {
	return generation.GenerationRequest{
		Kind:   "letter",
		Prompt: "Write a cover letter.",
		Schema: letterSchema(),
		Fallback: func(key string) json.RawMessage {
			return generation.MustMarshal("Dear hiring manager, " + strings.ToUpper(key))
		},
	}
}

func question(options ...string) map[string]any {
	opts := make([]any, len(options))
	for i, o := range options {
		opts[i] = o
	}
	return map[string]any{
		"question":      "What does HTTP 404 mean?",
		"options":       opts,
		"correctAnswer": options[0],
		"explanation":   "Not found.",
	}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
