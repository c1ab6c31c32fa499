package content

// Content kinds. A kind groups artifacts of the same variant and selects
// their refresh TTL.
const (
	KindInsights = "insights"
	KindQuiz     = "quiz"
	KindLetter   = "letter"
	KindTip      = "tip"
)

// Kinds lists every known content kind.
var Kinds = []string{KindInsights, KindQuiz, KindLetter, KindTip}

// Shape constants shared by schemas, prompts and the fallback bank.
const (
	QuizLength         = 10
	OptionsPerQuestion = 4
	MaxSalaryRanges    = 10
	LetterTargetWords  = 400
	TipTargetWords     = 60
)
