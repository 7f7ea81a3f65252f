package reconcile

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/aidanlsb/mission/internal/entity"
	"github.com/aidanlsb/mission/internal/tracker"
)

// fakeRepo is an in-memory tracker.Repository that records its calls.
type fakeRepo struct {
	mu         sync.Mutex
	nextID     int
	issues     map[string]entity.Issue
	milestones map[string]entity.Milestone
	projects   map[string]entity.Project

	createdIssues     []string // titles
	updatedIssues     []string // ids
	hiddenIssues      []string // ids
	createdMilestones []string // titles
	createdProjects   []string // titles
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		nextID:     1,
		issues:     make(map[string]entity.Issue),
		milestones: make(map[string]entity.Milestone),
		projects:   make(map[string]entity.Project),
	}
}

// opener returns a tracker.Opener that always yields this repo.
func (f *fakeRepo) opener() tracker.Opener {
	return func(kind string, cfg tracker.Config) (tracker.Repository, error) {
		return f, nil
	}
}

func (f *fakeRepo) seedIssue(issue entity.Issue) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issues[issue.ID] = issue
}

func (f *fakeRepo) seedMilestone(m entity.Milestone) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.milestones[m.ID] = m
}

func (f *fakeRepo) allocID() string {
	id := strconv.Itoa(f.nextID)
	f.nextID++
	return id
}

func issueHidden(i entity.Issue) bool {
	return i.Status == entity.StatusClosed && i.StatusReason == entity.ReasonNotPlanned
}

func (f *fakeRepo) FetchIssueByID(ctx context.Context, id string) (*entity.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if issue, ok := f.issues[id]; ok {
		return &issue, nil
	}
	return nil, nil
}

func (f *fakeRepo) FetchIssueByTitle(ctx context.Context, title string) (*entity.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, issue := range f.issues {
		if issue.Title == title {
			return &issue, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) FetchIssuesInMilestone(ctx context.Context, milestoneID string) ([]entity.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []entity.Issue
	for _, issue := range f.issues {
		if issue.MilestoneID == milestoneID && !issueHidden(issue) {
			result = append(result, issue)
		}
	}
	return result, nil
}

func (f *fakeRepo) FetchIssuesInProject(ctx context.Context, projectID string) ([]entity.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []entity.Issue
	for _, issue := range f.issues {
		if issue.ProjectID == projectID && !issueHidden(issue) {
			result = append(result, issue)
		}
	}
	return result, nil
}

func (f *fakeRepo) CreateIssue(ctx context.Context, issue entity.Issue) (*entity.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	issue.ID = f.allocID()
	f.issues[issue.ID] = issue
	f.createdIssues = append(f.createdIssues, issue.Title)
	return &issue, nil
}

func (f *fakeRepo) UpdateIssue(ctx context.Context, issue entity.Issue) (*entity.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issues[issue.ID] = issue
	f.updatedIssues = append(f.updatedIssues, issue.ID)
	return &issue, nil
}

func (f *fakeRepo) HideIssue(ctx context.Context, id string) (*entity.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	issue := f.issues[id]
	issue.ID = id
	issue.Status = entity.StatusClosed
	issue.StatusReason = entity.ReasonNotPlanned
	f.issues[id] = issue
	f.hiddenIssues = append(f.hiddenIssues, id)
	return &issue, nil
}

func (f *fakeRepo) FetchMilestoneByTitle(ctx context.Context, title string) (*entity.Milestone, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.milestones {
		if m.Title == title {
			return &m, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) FetchMilestones(ctx context.Context) ([]entity.Milestone, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []entity.Milestone
	for _, m := range f.milestones {
		result = append(result, m)
	}
	return result, nil
}

func (f *fakeRepo) CreateMilestone(ctx context.Context, m entity.Milestone) (*entity.Milestone, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = f.allocID()
	if m.Status == "" {
		m.Status = entity.StatusOpen
	}
	f.milestones[m.ID] = m
	f.createdMilestones = append(f.createdMilestones, m.Title)
	return &m, nil
}

func (f *fakeRepo) UpdateMilestone(ctx context.Context, m entity.Milestone) (*entity.Milestone, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.milestones[m.ID] = m
	return &m, nil
}

func (f *fakeRepo) FetchProjectByTitle(ctx context.Context, title string) (*entity.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.projects {
		if p.Title == title {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) FetchProjects(ctx context.Context) ([]entity.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []entity.Project
	for _, p := range f.projects {
		result = append(result, p)
	}
	return result, nil
}

func (f *fakeRepo) CreateProject(ctx context.Context, p entity.Project) (*entity.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = f.allocID()
	if p.Status == "" {
		p.Status = entity.StatusOpen
	}
	f.projects[p.ID] = p
	f.createdProjects = append(f.createdProjects, p.Title)
	return &p, nil
}

func (f *fakeRepo) UpdateProject(ctx context.Context, p entity.Project) (*entity.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects[p.ID] = p
	return &p, nil
}

func (f *fakeRepo) CompareIDs(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}
