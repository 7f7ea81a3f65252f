package github

import (
	"errors"
	"strconv"

	"github.com/aidanlsb/mission/internal/entity"
)

// errNotFound marks a 404 from the API; fetch methods translate it to a
// nil entity rather than a failure.
var errNotFound = errors.New("not found")

// ghIssue is the wire shape of an issue from the GitHub API.
type ghIssue struct {
	ID          int64        `json:"id"`     // global unique id
	Number      int          `json:"number"` // repository-scoped number
	Title       string       `json:"title"`
	Body        string       `json:"body"`
	State       string       `json:"state"`
	StateReason string       `json:"state_reason,omitempty"`
	Milestone   *ghMilestone `json:"milestone,omitempty"`
	PullRequest *ghPullRef   `json:"pull_request,omitempty"`
}

// ghPullRef is non-nil when an "issue" is actually a pull request. The
// issues endpoint returns both; this field distinguishes them.
type ghPullRef struct {
	URL string `json:"url,omitempty"`
}

// ghMilestone is the wire shape of a milestone.
type ghMilestone struct {
	ID          int64  `json:"id"`
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	State       string `json:"state"`
}

// ghProject is the wire shape of a classic project.
type ghProject struct {
	ID     int64  `json:"id"`
	Number int    `json:"number"`
	Name   string `json:"name"`
	Body   string `json:"body,omitempty"`
	State  string `json:"state"`
}

// ghColumn is a classic project column.
type ghColumn struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ghSearchResult is the response envelope of the issue search endpoint.
type ghSearchResult struct {
	Items []ghIssue `json:"items"`
}

func (i ghIssue) toEntity() entity.Issue {
	issue := entity.Issue{
		ID:           strconv.Itoa(i.Number),
		Title:        i.Title,
		Description:  i.Body,
		Status:       entity.Status(i.State),
		StatusReason: entity.StatusReason(i.StateReason),
	}
	if i.Milestone != nil {
		issue.MilestoneID = strconv.Itoa(i.Milestone.Number)
	}
	return issue
}

func (m ghMilestone) toEntity() entity.Milestone {
	return entity.Milestone{
		ID:          strconv.Itoa(m.Number),
		Title:       m.Title,
		Description: m.Description,
		Status:      entity.Status(m.State),
	}
}

func (p ghProject) toEntity() entity.Project {
	return entity.Project{
		ID:          strconv.Itoa(p.Number),
		Number:      p.Number,
		Title:       p.Name,
		Description: p.Body,
		Status:      entity.Status(p.State),
	}
}

// hidden reports whether an issue was closed as not planned; such issues
// stay out of milestone and project listings.
func (i ghIssue) hidden() bool {
	return i.State == "closed" && i.StateReason == "not_planned"
}
