package content

import "github.com/careerforge/careerforge-api/internal/generation"

// InsightSchema describes the industry insight record. Only the shape of the
// record is enforced; absent scalars fall back to neutral values.
func InsightSchema() generation.ResponseSchema {
	salary := generation.ResponseSchema{
		Name: "salary_range",
		Kind: generation.SchemaObject,
		Fields: []generation.FieldSpec{
			{Name: "role", Type: generation.FieldString, Required: true},
			{Name: "min", Type: generation.FieldNumber, Default: 0.0},
			{Name: "max", Type: generation.FieldNumber, Default: 0.0},
			{Name: "median", Type: generation.FieldNumber, Default: 0.0},
			{Name: "location", Type: generation.FieldString, Default: ""},
		},
	}

	return generation.ResponseSchema{
		Name: "industry_insight",
		Kind: generation.SchemaObject,
		Fields: []generation.FieldSpec{
			{
				Name:   "salaryRanges",
				Type:   generation.FieldObjectList,
				Item:   &salary,
				Length: &generation.LengthRule{Max: MaxSalaryRanges},
			},
			{Name: "growthRate", Type: generation.FieldNumber, Default: 0.0},
			{
				Name:    "demandLevel",
				Type:    generation.FieldEnum,
				Enum:    []string{"HIGH", "MEDIUM", "LOW"},
				Default: "MEDIUM",
			},
			{Name: "topSkills", Type: generation.FieldStringList},
			{
				Name:    "recommendedSkills",
				Aliases: []string{"recommendations"},
				Type:    generation.FieldStringList,
			},
			{
				Name:    "marketOutlook",
				Type:    generation.FieldEnum,
				Enum:    []string{"POSITIVE", "NEUTRAL", "NEGATIVE"},
				Default: "NEUTRAL",
			},
			{Name: "keyTrends", Type: generation.FieldStringList},
		},
	}
}

// QuestionSchema describes one multiple-choice question. Questions without
// exactly four options or without a resolvable answer are rejected.
func QuestionSchema() generation.ResponseSchema {
	return generation.ResponseSchema{
		Name: "quiz_question",
		Kind: generation.SchemaObject,
		Fields: []generation.FieldSpec{
			{Name: "question", Type: generation.FieldString, Required: true},
			{
				Name:     "options",
				Type:     generation.FieldStringList,
				Required: true,
				Length:   &generation.LengthRule{Min: OptionsPerQuestion, Max: OptionsPerQuestion},
			},
			{Name: "correctAnswer", Type: generation.FieldString, Required: true, MatchOf: "options"},
			{Name: "explanation", Type: generation.FieldString, Default: ""},
		},
	}
}

// QuizSchema describes a quiz of exactly QuizLength questions.
func QuizSchema() generation.ResponseSchema {
	item := QuestionSchema()
	return generation.ResponseSchema{
		Name: "interview_quiz",
		Kind: generation.SchemaObject,
		Fields: []generation.FieldSpec{
			{
				Name:     "questions",
				Type:     generation.FieldObjectList,
				Required: true,
				Item:     &item,
				Length:   &generation.LengthRule{Min: QuizLength, Max: QuizLength},
			},
		},
	}
}

// LetterSchema describes a markdown cover letter.
func LetterSchema() generation.ResponseSchema {
	return generation.ResponseSchema{
		Name: "cover_letter",
		Kind: generation.SchemaText,
		Text: generation.TextRules{TargetWords: LetterTargetWords},
	}
}

// TipSchema describes a short improvement tip.
func TipSchema() generation.ResponseSchema {
	return generation.ResponseSchema{
		Name: "improvement_tip",
		Kind: generation.SchemaText,
		Text: generation.TextRules{TargetWords: TipTargetWords},
	}
}
