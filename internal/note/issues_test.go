package note

import (
	"errors"
	"testing"

	"github.com/aidanlsb/mission/internal/entity"
)

const issuesNote = `---
mission.type: milestone
mission.id: "5"
---

# Launch

## Issues

- [ ] Fix login flow (101)
- [x] Ship billing page (102)
  - Stripe integration behind a flag
    rollout next week
- [ ] Add rate limiting

## Scratch

- [ ] Not an issue, different section
`

func TestParseIssues(t *testing.T) {
	issues := ParseIssues(issuesNote)
	if len(issues) != 3 {
		t.Fatalf("got %d issues, want 3: %+v", len(issues), issues)
	}

	want := []entity.Issue{
		{ID: "101", Title: "Fix login flow", Status: entity.StatusOpen},
		{ID: "102", Title: "Ship billing page", Status: entity.StatusClosed,
			Description: "Stripe integration behind a flag\nrollout next week"},
		{Title: "Add rate limiting", Status: entity.StatusOpen},
	}
	for i, w := range want {
		if issues[i] != w {
			t.Errorf("issue %d = %+v, want %+v", i, issues[i], w)
		}
	}
}

func TestParseIssuesEdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		count int
	}{
		{"no issues section", "# Note\n\nbody\n", 0},
		{"empty issues section", "## Issues\n\n## Next\n", 0},
		{"bare bullet without checkbox", "## Issues\n\n- Just a title\n", 1},
		{"description without issue line ignored", "## Issues\n\ntext\n  - stray bullet\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseIssues(tt.text); len(got) != tt.count {
				t.Errorf("got %d issues, want %d: %+v", len(got), tt.count, got)
			}
		})
	}
}

func TestFormatIssueRoundTrip(t *testing.T) {
	issues := []entity.Issue{
		{ID: "7", Title: "Fix login", Status: entity.StatusOpen},
		{ID: "8", Title: "Ship billing", Status: entity.StatusClosed, Description: "two\nlines"},
		{Title: "Unresolved", Status: entity.StatusOpen},
	}

	text := "## Issues\n\n" + FormatIssueList(issues) + "\n"
	parsed := ParseIssues(text)
	if len(parsed) != len(issues) {
		t.Fatalf("round trip lost issues: got %d, want %d", len(parsed), len(issues))
	}
	for i := range issues {
		if parsed[i] != issues[i] {
			t.Errorf("issue %d = %+v, want %+v", i, parsed[i], issues[i])
		}
	}
}

func TestFormatIssue(t *testing.T) {
	got := FormatIssue(entity.Issue{ID: "9", Title: "Do it", Status: entity.StatusClosed, Description: "first\nsecond"})
	want := "- [x] Do it (9)\n  - first\n    second"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSetIssueID(t *testing.T) {
	t.Run("annotates matching line", func(t *testing.T) {
		text := "## Issues\n\n- [ ] Fix login\n- [ ] Other\n"
		got, err := SetIssueID(text, "Fix login", "42")
		if err != nil {
			t.Fatalf("SetIssueID: %v", err)
		}
		want := "## Issues\n\n- [ ] Fix login (42)\n- [ ] Other\n"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("matches line without checkbox", func(t *testing.T) {
		got, err := SetIssueID("- Fix login\n", "Fix login", "42")
		if err != nil {
			t.Fatalf("SetIssueID: %v", err)
		}
		if got != "- Fix login (42)\n" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("line edited away", func(t *testing.T) {
		_, err := SetIssueID("- [ ] Something else\n", "Fix login", "42")
		if !errors.Is(err, ErrIssueLineNotFound) {
			t.Errorf("got %v, want ErrIssueLineNotFound", err)
		}
	})
}
