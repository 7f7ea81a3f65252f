package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/aidanlsb/mission/internal/entity"
)

// FetchProjects lists the repository's classic projects.
func (c *Client) FetchProjects(ctx context.Context) ([]entity.Project, error) {
	urlStr := c.buildURL("/repos/"+c.repoPath()+"/projects", map[string]string{
		"state":    "all",
		"per_page": strconv.Itoa(MaxPageSize),
	})

	body, _, err := c.doRequest(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	var projects []ghProject
	if err := json.Unmarshal(body, &projects); err != nil {
		return nil, fmt.Errorf("failed to parse projects response: %w", err)
	}

	result := make([]entity.Project, 0, len(projects))
	for _, p := range projects {
		result = append(result, p.toEntity())
	}
	return result, nil
}

// FetchProjectByTitle returns the first project with an exact title match,
// or nil when none exists.
func (c *Client) FetchProjectByTitle(ctx context.Context, title string) (*entity.Project, error) {
	projects, err := c.FetchProjects(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if p.Title == title {
			return &p, nil
		}
	}
	return nil, nil
}

// CreateProject creates a classic project board.
func (c *Client) CreateProject(ctx context.Context, project entity.Project) (*entity.Project, error) {
	urlStr := c.buildURL("/repos/"+c.repoPath()+"/projects", nil)

	payload := map[string]interface{}{
		"name": project.Title,
		"body": project.Description,
	}

	body, _, err := c.doRequest(ctx, http.MethodPost, urlStr, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	var created ghProject
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("failed to parse created project: %w", err)
	}

	result := created.toEntity()
	return &result, nil
}

// UpdateProject pushes a field update for an existing project. Projects
// are addressed by their global id, so the board is resolved by number
// first.
func (c *Client) UpdateProject(ctx context.Context, project entity.Project) (*entity.Project, error) {
	if project.ID == "" {
		return nil, fmt.Errorf("cannot update project without id")
	}

	board, err := c.findProjectBoard(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	urlStr := c.buildURL("/projects/"+strconv.FormatInt(board.ID, 10), nil)
	payload := map[string]interface{}{
		"name": project.Title,
		"body": project.Description,
	}
	if project.Status != "" {
		payload["state"] = string(project.Status)
	}

	body, _, err := c.doRequest(ctx, http.MethodPatch, urlStr, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to update project %s: %w", project.ID, err)
	}

	var updated ghProject
	if err := json.Unmarshal(body, &updated); err != nil {
		return nil, fmt.Errorf("failed to parse updated project: %w", err)
	}

	result := updated.toEntity()
	return &result, nil
}

// findProjectBoard resolves a project number to its board.
func (c *Client) findProjectBoard(ctx context.Context, projectID string) (*ghProject, error) {
	urlStr := c.buildURL("/repos/"+c.repoPath()+"/projects", map[string]string{
		"state":    "all",
		"per_page": strconv.Itoa(MaxPageSize),
	})

	body, _, err := c.doRequest(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	var projects []ghProject
	if err := json.Unmarshal(body, &projects); err != nil {
		return nil, fmt.Errorf("failed to parse projects response: %w", err)
	}

	for i := range projects {
		if strconv.Itoa(projects[i].Number) == projectID {
			return &projects[i], nil
		}
	}
	return nil, fmt.Errorf("project %s not found", projectID)
}

// addIssueToProject places an issue on a project board's first column.
func (c *Client) addIssueToProject(ctx context.Context, projectID string, issueGlobalID int64) error {
	board, err := c.findProjectBoard(ctx, projectID)
	if err != nil {
		return err
	}

	columnsURL := c.buildURL("/projects/"+strconv.FormatInt(board.ID, 10)+"/columns", nil)
	body, _, err := c.doRequest(ctx, http.MethodGet, columnsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to list project columns: %w", err)
	}

	var columns []ghColumn
	if err := json.Unmarshal(body, &columns); err != nil {
		return fmt.Errorf("failed to parse columns response: %w", err)
	}
	if len(columns) == 0 {
		return fmt.Errorf("project %s has no columns", projectID)
	}

	cardURL := c.buildURL("/projects/columns/"+strconv.FormatInt(columns[0].ID, 10)+"/cards", nil)
	payload := map[string]interface{}{
		"content_id":   issueGlobalID,
		"content_type": "Issue",
	}
	if _, _, err := c.doRequest(ctx, http.MethodPost, cardURL, payload); err != nil {
		return fmt.Errorf("failed to create project card: %w", err)
	}

	return nil
}
