package analysis

type RecapPayload struct {
	Summary     string   `json:"summary"`
	KeyPoints   []string `json:"keyPoints"`
	ActionItems []string `json:"actionItems"`
	NextSteps   []string `json:"nextSteps"`
	Decisions   []string `json:"decisions"`
}

type HighlightCategory string

const (
	CategoryInsight     HighlightCategory = "insight"
	CategoryCommitment  HighlightCategory = "commitment"
	CategoryProblem     HighlightCategory = "problem"
	CategoryOpportunity HighlightCategory = "opportunity"
	CategoryDecision    HighlightCategory = "decision"
	CategoryQuote       HighlightCategory = "quote"
	CategoryData        HighlightCategory = "data"
)

// Symbol returns the display marker for a category. Unrecognized categories
// render a plain bullet.
func (c HighlightCategory) Symbol() string {
	switch c {
	case CategoryInsight:
		return "💡"
	case CategoryCommitment:
		return "🤝"
	case CategoryProblem:
		return "⚠️"
	case CategoryOpportunity:
		return "🚀"
	case CategoryDecision:
		return "⚡"
	case CategoryQuote:
		return "💬"
	case CategoryData:
		return "📊"
	}
	return "•"
}

type HighlightImportance string

const (
	ImportanceHigh   HighlightImportance = "high"
	ImportanceMedium HighlightImportance = "medium"
	ImportanceLow    HighlightImportance = "low"
)

// Weight maps importance to its sort weight. Unrecognized values sort last.
func (i HighlightImportance) Weight() int {
	switch i {
	case ImportanceHigh:
		return 3
	case ImportanceMedium:
		return 2
	case ImportanceLow:
		return 1
	}
	return 0
}

type HighlightEntry struct {
	Category   HighlightCategory   `json:"category"`
	Content    string              `json:"content"`
	Importance HighlightImportance `json:"importance"`
}

type HighlightsPayload struct {
	Highlights []HighlightEntry `json:"highlights"`
}
