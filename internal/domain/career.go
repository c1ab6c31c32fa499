package domain

// Demand levels reported for an industry.
const (
	DemandHigh   = "HIGH"
	DemandMedium = "MEDIUM"
	DemandLow    = "LOW"
)

// Market outlook values reported for an industry.
const (
	OutlookPositive = "POSITIVE"
	OutlookNeutral  = "NEUTRAL"
	OutlookNegative = "NEGATIVE"
)

// SalaryRange is the pay band reported for a single role.
type SalaryRange struct {
	Role     string  `json:"role"     yaml:"role"`
	Min      float64 `json:"min"      yaml:"min"`
	Max      float64 `json:"max"      yaml:"max"`
	Median   float64 `json:"median"   yaml:"median"`
	Location string  `json:"location" yaml:"location"`
}

// IndustryInsight is the structured market summary for one industry.
type IndustryInsight struct {
	SalaryRanges      []SalaryRange `json:"salaryRanges"      yaml:"salaryRanges"`
	GrowthRate        float64       `json:"growthRate"        yaml:"growthRate"`
	DemandLevel       string        `json:"demandLevel"       yaml:"demandLevel"`
	TopSkills         []string      `json:"topSkills"         yaml:"topSkills"`
	RecommendedSkills []string      `json:"recommendedSkills" yaml:"recommendedSkills"`
	MarketOutlook     string        `json:"marketOutlook"     yaml:"marketOutlook"`
	KeyTrends         []string      `json:"keyTrends"         yaml:"keyTrends"`
}

// QuizQuestion is a single multiple-choice interview question.
type QuizQuestion struct {
	Question      string   `json:"question"      yaml:"question"`
	Options       []string `json:"options"       yaml:"options"`
	CorrectAnswer string   `json:"correctAnswer" yaml:"correctAnswer"`
	Explanation   string   `json:"explanation"   yaml:"explanation"`
}

// Quiz is a set of technical interview questions.
type Quiz struct {
	Questions []QuizQuestion `json:"questions" yaml:"questions"`
}

// QuestionResult records how a user answered one quiz question.
type QuestionResult struct {
	Question   string `json:"question"    validate:"required"`
	Answer     string `json:"answer"      validate:"required"`
	UserAnswer string `json:"user_answer"`
}

// IsCorrect reports whether the user picked the expected answer.
func (r QuestionResult) IsCorrect() bool {
	return r.Answer == r.UserAnswer
}

// CoverLetter is a generated markdown cover letter.
type CoverLetter struct {
	CompanyName string `json:"company_name"`
	JobTitle    string `json:"job_title"`
	Content     string `json:"content"`
}

// ImprovementTip is a short study suggestion derived from wrong answers.
type ImprovementTip struct {
	Tip string `json:"tip"`
}
