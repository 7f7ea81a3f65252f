// Package tracker defines the issue repository capability the reconciler
// syncs against. Each remote tracker (GitHub today) provides an
// implementation, selected by kind through the registry.
package tracker

import (
	"context"
	"errors"

	"github.com/aidanlsb/mission/internal/entity"
)

// ErrMissingToken indicates no access token is configured. Fatal to any
// remote operation.
var ErrMissingToken = errors.New("no access token configured")

// Repository is the remote issue tracker capability. Fetch methods return
// (nil, nil) when the entity does not exist. All ids are opaque strings
// assigned by the tracker.
type Repository interface {
	FetchIssueByID(ctx context.Context, id string) (*entity.Issue, error)
	FetchIssueByTitle(ctx context.Context, title string) (*entity.Issue, error)
	FetchIssuesInMilestone(ctx context.Context, milestoneID string) ([]entity.Issue, error)
	FetchIssuesInProject(ctx context.Context, projectID string) ([]entity.Issue, error)
	CreateIssue(ctx context.Context, issue entity.Issue) (*entity.Issue, error)
	UpdateIssue(ctx context.Context, issue entity.Issue) (*entity.Issue, error)

	// HideIssue soft-deletes: the issue is closed as not planned and
	// excluded from subsequent milestone/project listings.
	HideIssue(ctx context.Context, id string) (*entity.Issue, error)

	FetchMilestoneByTitle(ctx context.Context, title string) (*entity.Milestone, error)
	FetchMilestones(ctx context.Context) ([]entity.Milestone, error)
	CreateMilestone(ctx context.Context, milestone entity.Milestone) (*entity.Milestone, error)
	UpdateMilestone(ctx context.Context, milestone entity.Milestone) (*entity.Milestone, error)

	FetchProjectByTitle(ctx context.Context, title string) (*entity.Project, error)
	FetchProjects(ctx context.Context) ([]entity.Project, error)
	CreateProject(ctx context.Context, project entity.Project) (*entity.Project, error)
	UpdateProject(ctx context.Context, project entity.Project) (*entity.Project, error)

	// CompareIDs imposes a total order over opaque id strings, used as a
	// stable secondary sort when rendering fetched issue lists.
	CompareIDs(a, b string) int
}

// Config carries everything needed to open a repository connection.
type Config struct {
	Token   string
	BaseURL string // empty means the tracker's default endpoint
	Owner   string
	Repo    string
}
