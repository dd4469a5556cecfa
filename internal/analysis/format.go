package analysis

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

const (
	noSummaryFallback    = "No summary available"
	noHighlightsFallback = "No significant highlights identified."
)

// FormatRecap renders a recap payload into the five-section display document
// persisted on the meeting. Empty list sections keep their header with no
// bullets.
func FormatRecap(p RecapPayload) string {
	summary := p.Summary
	if summary == "" {
		summary = noSummaryFallback
	}
	return fmt.Sprintf(`MEETING SUMMARY:
%s

KEY DISCUSSION POINTS:
%s

ACTION ITEMS:
%s

NEXT STEPS:
%s

DECISIONS MADE:
%s`,
		summary,
		bulletLines(p.KeyPoints),
		bulletLines(p.ActionItems),
		bulletLines(p.NextSteps),
		bulletLines(p.Decisions))
}

// FormatHighlights renders highlight entries ranked by importance into the
// display envelope persisted on the meeting.
func FormatHighlights(entries []HighlightEntry, highlightContext string) string {
	ranked := SortByImportance(entries)
	lines := make([]string, 0, len(ranked))
	for i, e := range ranked {
		lines = append(lines, fmt.Sprintf("%d. %s %s", i+1, e.Category.Symbol(), e.Content))
	}
	body := strings.Join(lines, "\n\n")
	if body == "" {
		body = noHighlightsFallback
	}
	return fmt.Sprintf("KEY HIGHLIGHTS:\n\n%s\n\n---\nContext: %s", body, highlightContext)
}

// SortByImportance returns entries ordered by descending importance weight.
// The sort is stable: ties preserve provider emission order.
func SortByImportance(entries []HighlightEntry) []HighlightEntry {
	ranked := slices.Clone(entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Importance.Weight() > ranked[j].Importance.Weight()
	})
	return ranked
}

func bulletLines(items []string) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "• "+item)
	}
	return strings.Join(lines, "\n")
}
