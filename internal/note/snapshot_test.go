package note

import (
	"testing"

	"github.com/aidanlsb/mission/internal/entity"
)

func TestParseRepo(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  Repo
		ok    bool
	}{
		{"valid", "acme/api", Repo{Org: "acme", Name: "api"}, true},
		{"nested name", "acme/team/api", Repo{Org: "acme", Name: "team/api"}, true},
		{"placeholder is unset", "org/repo", Repo{}, false},
		{"empty", "", Repo{}, false},
		{"whitespace", "  ", Repo{}, false},
		{"no slash", "acme", Repo{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRepo(tt.value)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseRepo(%q) = %+v, %v; want %+v, %v", tt.value, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParse(t *testing.T) {
	text := `---
mission.type: milestone
mission.id: "5"
mission.title: Launch
mission.tracker: github
mission.repo: acme/api
---

Ship the new onboarding flow.

## Issues

- [ ] Fix login (101)
- [ ] Add rate limiting
`

	snap := Parse(text)

	if snap.Type != TypeMilestone || snap.ID != "5" || snap.Title != "Launch" || snap.Tracker != "github" {
		t.Errorf("tracked fields = %+v", snap)
	}
	if snap.Repo == nil || snap.Repo.Org != "acme" || snap.Repo.Name != "api" {
		t.Errorf("repo = %+v", snap.Repo)
	}
	if len(snap.Issues) != 2 {
		t.Fatalf("got %d issues, want 2", len(snap.Issues))
	}
	// Issues in a milestone note carry the milestone id.
	for i, issue := range snap.Issues {
		if issue.MilestoneID != "5" {
			t.Errorf("issue %d MilestoneID = %q, want 5", i, issue.MilestoneID)
		}
		if issue.ProjectID != "" {
			t.Errorf("issue %d ProjectID = %q, want empty", i, issue.ProjectID)
		}
	}
}

func TestParsePlaceholderRepoIsUnset(t *testing.T) {
	snap := Parse("---\nmission.type: milestone\nmission.repo: org/repo\n---\n")
	if snap.Repo != nil {
		t.Errorf("placeholder repo should parse as unset, got %+v", snap.Repo)
	}
}

func TestTrackedMilestone(t *testing.T) {
	text := `---
mission.type: milestone
mission.id: "5"
mission.title: Launch
---

Ship the new onboarding flow.

## Issues
`
	snap := Parse(text)

	got := snap.TrackedMilestone()
	want := &entity.Milestone{ID: "5", Title: "Launch", Description: "Ship the new onboarding flow."}
	if got == nil || *got != *want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if snap.TrackedProject() != nil {
		t.Error("milestone note should not track a project")
	}
}

func TestTrackedProject(t *testing.T) {
	snap := Parse("---\nmission.type: project\nmission.title: Platform\n---\n\nLong term platform work.\n")

	got := snap.TrackedProject()
	want := &entity.Project{Title: "Platform", Description: "Long term platform work."}
	if got == nil || *got != *want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if snap.TrackedMilestone() != nil {
		t.Error("project note should not track a milestone")
	}
}

func TestUntrackedNote(t *testing.T) {
	snap := Parse("# Plain note\n\nNothing tracked here.\n")
	if snap.Type != "" || snap.ID != "" || snap.Repo != nil {
		t.Errorf("untracked note parsed tracked fields: %+v", snap)
	}
	if snap.TrackedMilestone() != nil || snap.TrackedProject() != nil {
		t.Error("untracked note should track nothing")
	}
}
