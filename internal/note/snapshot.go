// Package note builds typed snapshots of tracked notes.
//
// A snapshot is a point-in-time parse of one note's text: the tracked
// type/id/title from front matter, the repository the note syncs against,
// and the issue list from the "Issues" section. Snapshots are value
// objects; a change to the underlying text requires a fresh Parse.
package note

import (
	"regexp"
	"strings"

	"github.com/aidanlsb/mission/internal/entity"
	"github.com/aidanlsb/mission/internal/notetext"
)

// Front-matter property keys. The key layout is part of the persisted
// note format and must stay stable.
const (
	PropHost    = "mission.host"
	PropTracker = "mission.tracker"
	PropRepo    = "mission.repo"
	PropType    = "mission.type"
	PropID      = "mission.id"
	PropTitle   = "mission.title"
)

// PlaceholderRepo is the literal repo value written as first-run guidance.
// It reads as "configured nothing yet" rather than a real repository.
const PlaceholderRepo = "org/repo"

// IssuesHeading is the heading of the section that encodes the issue list.
const IssuesHeading = "Issues"

// Type is the kind of remote entity a note tracks.
type Type string

const (
	TypeMilestone Type = "milestone"
	TypeProject   Type = "project"
	TypeIssue     Type = "issue"
	TypeRepo      Type = "repo"
)

// Repo identifies a remote repository as org/name.
type Repo struct {
	Org  string
	Name string
}

// String returns the org/name form.
func (r Repo) String() string {
	return r.Org + "/" + r.Name
}

var repoPattern = regexp.MustCompile(`^([^/]+)/(.+)$`)

// ParseRepo parses an org/name repo property value. The placeholder value
// and anything not matching org/name count as unset.
func ParseRepo(value string) (Repo, bool) {
	value = strings.TrimSpace(value)
	if value == "" || value == PlaceholderRepo {
		return Repo{}, false
	}
	m := repoPattern.FindStringSubmatch(value)
	if m == nil {
		return Repo{}, false
	}
	return Repo{Org: m[1], Name: m[2]}, true
}

// Snapshot is the parsed view of one note at one instant.
type Snapshot struct {
	Text    string
	Type    Type
	ID      string
	Title   string
	Tracker string
	Repo    *Repo
	Issues  []entity.Issue
}

// Parse builds a snapshot from raw note text.
func Parse(text string) *Snapshot {
	props := notetext.ReadProperties(text)

	s := &Snapshot{
		Text:    text,
		Type:    Type(props[PropType]),
		ID:      props[PropID],
		Title:   props[PropTitle],
		Tracker: props[PropTracker],
	}

	if repo, ok := ParseRepo(props[PropRepo]); ok {
		s.Repo = &repo
	}

	s.Issues = ParseIssues(text)
	for i := range s.Issues {
		switch s.Type {
		case TypeMilestone:
			s.Issues[i].MilestoneID = s.ID
		case TypeProject:
			s.Issues[i].ProjectID = s.ID
		}
	}

	return s
}

// TrackedMilestone reconstructs the milestone this note represents, or nil
// when the note does not track one. The head section doubles as the
// milestone description.
func (s *Snapshot) TrackedMilestone() *entity.Milestone {
	if s.Type != TypeMilestone {
		return nil
	}
	return &entity.Milestone{
		ID:          s.ID,
		Title:       s.Title,
		Description: notetext.HeadSection(s.Text),
	}
}

// TrackedProject reconstructs the project this note represents, or nil
// when the note does not track one.
func (s *Snapshot) TrackedProject() *entity.Project {
	if s.Type != TypeProject {
		return nil
	}
	return &entity.Project{
		ID:          s.ID,
		Title:       s.Title,
		Description: notetext.HeadSection(s.Text),
	}
}
