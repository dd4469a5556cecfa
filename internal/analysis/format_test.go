package analysis

import (
	"strings"
	"testing"
)

func TestFormatRecap_AllSections(t *testing.T) {
	got := FormatRecap(RecapPayload{
		Summary:     "Quarterly planning sync.",
		KeyPoints:   []string{"Budget review", "Hiring plan"},
		ActionItems: []string{"Ship date"},
		NextSteps:   []string{"Schedule follow-up"},
		Decisions:   []string{"Freeze scope"},
	})

	want := `MEETING SUMMARY:
Quarterly planning sync.

KEY DISCUSSION POINTS:
• Budget review
• Hiring plan

ACTION ITEMS:
• Ship date

NEXT STEPS:
• Schedule follow-up

DECISIONS MADE:
• Freeze scope`
	if got != want {
		t.Fatalf("unexpected recap:\n%s", got)
	}
}

func TestFormatRecap_EmptyPayload(t *testing.T) {
	got := FormatRecap(RecapPayload{})

	if !strings.HasPrefix(got, "MEETING SUMMARY:\nNo summary available") {
		t.Fatalf("expected summary fallback, got:\n%s", got)
	}
	// Empty lists keep their headers with no bullets.
	if !strings.Contains(got, "KEY DISCUSSION POINTS:\n\n") {
		t.Fatalf("expected empty key points section, got:\n%s", got)
	}
	if strings.Contains(got, "•") {
		t.Fatalf("expected no bullets, got:\n%s", got)
	}
}

func TestSortByImportance(t *testing.T) {
	entries := []HighlightEntry{
		{Content: "low", Importance: ImportanceLow},
		{Content: "high", Importance: ImportanceHigh},
		{Content: "medium", Importance: ImportanceMedium},
	}

	ranked := SortByImportance(entries)

	wantOrder := []string{"high", "medium", "low"}
	for i, want := range wantOrder {
		if ranked[i].Content != want {
			t.Fatalf("position %d: expected %q, got %q", i, want, ranked[i].Content)
		}
	}
	// Input slice is left untouched.
	if entries[0].Content != "low" {
		t.Fatalf("input slice was mutated: %v", entries)
	}
}

func TestSortByImportance_StableOnTies(t *testing.T) {
	entries := []HighlightEntry{
		{Content: "first", Importance: ImportanceHigh},
		{Content: "second", Importance: ImportanceHigh},
		{Content: "third", Importance: "unknown"},
		{Content: "fourth", Importance: "unknown"},
	}

	ranked := SortByImportance(entries)

	wantOrder := []string{"first", "second", "third", "fourth"}
	for i, want := range wantOrder {
		if ranked[i].Content != want {
			t.Fatalf("position %d: expected %q, got %q", i, want, ranked[i].Content)
		}
	}
}

func TestFormatHighlights(t *testing.T) {
	got := FormatHighlights([]HighlightEntry{
		{Category: CategoryQuote, Content: "Ship it.", Importance: ImportanceMedium},
		{Category: CategoryProblem, Content: "Budget risk", Importance: ImportanceHigh},
	}, "board meeting")

	want := "KEY HIGHLIGHTS:\n\n" +
		"1. ⚠️ Budget risk\n\n" +
		"2. 💬 Ship it.\n\n" +
		"---\nContext: board meeting"
	if got != want {
		t.Fatalf("unexpected highlights:\n%s", got)
	}
}

func TestFormatHighlights_UnknownCategory(t *testing.T) {
	got := FormatHighlights([]HighlightEntry{
		{Category: "meta", Content: "Something else", Importance: ImportanceLow},
	}, "ctx")

	if !strings.Contains(got, "1. • Something else") {
		t.Fatalf("expected plain bullet marker, got:\n%s", got)
	}
}

func TestFormatHighlights_Empty(t *testing.T) {
	got := FormatHighlights(nil, "weekly 1:1")

	want := "KEY HIGHLIGHTS:\n\nNo significant highlights identified.\n\n---\nContext: weekly 1:1"
	if got != want {
		t.Fatalf("unexpected highlights:\n%s", got)
	}
}
