package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/aidanlsb/mission/internal/entity"
)

// listIssues pages through an issues listing URL, filtering out pull
// requests.
func (c *Client) listIssues(ctx context.Context, urlStr string) ([]ghIssue, error) {
	var all []ghIssue

	for page := 0; page < MaxPages; page++ {
		select {
		case <-ctx.Done():
			return all, ctx.Err()
		default:
		}

		body, headers, err := c.doRequest(ctx, http.MethodGet, urlStr, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to list issues: %w", err)
		}

		var issues []ghIssue
		if err := json.Unmarshal(body, &issues); err != nil {
			return nil, fmt.Errorf("failed to parse issues response: %w", err)
		}

		for _, issue := range issues {
			if issue.PullRequest != nil {
				continue
			}
			all = append(all, issue)
		}

		next, ok := nextPageURL(headers)
		if !ok {
			return all, nil
		}
		urlStr = next
	}

	return all, nil
}

// FetchIssueByID fetches one issue by its repository-scoped number.
func (c *Client) FetchIssueByID(ctx context.Context, id string) (*entity.Issue, error) {
	urlStr := c.buildURL("/repos/"+c.repoPath()+"/issues/"+id, nil)

	body, _, err := c.doRequest(ctx, http.MethodGet, urlStr, nil)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issue %s: %w", id, err)
	}

	var issue ghIssue
	if err := json.Unmarshal(body, &issue); err != nil {
		return nil, fmt.Errorf("failed to parse issue response: %w", err)
	}
	if issue.PullRequest != nil {
		return nil, nil
	}

	result := issue.toEntity()
	return &result, nil
}

// FetchIssueByTitle returns the first issue with an exact title match, or
// nil when none exists. Duplicate titles are not disambiguated.
func (c *Client) FetchIssueByTitle(ctx context.Context, title string) (*entity.Issue, error) {
	urlStr := c.buildURL("/repos/"+c.repoPath()+"/issues", map[string]string{
		"state":    "all",
		"per_page": strconv.Itoa(MaxPageSize),
	})

	issues, err := c.listIssues(ctx, urlStr)
	if err != nil {
		return nil, err
	}

	for _, issue := range issues {
		if issue.Title == title {
			result := issue.toEntity()
			return &result, nil
		}
	}

	return nil, nil
}

// FetchIssuesInMilestone lists the issues in a milestone, excluding hidden
// (closed as not planned) issues.
func (c *Client) FetchIssuesInMilestone(ctx context.Context, milestoneID string) ([]entity.Issue, error) {
	urlStr := c.buildURL("/repos/"+c.repoPath()+"/issues", map[string]string{
		"state":     "all",
		"milestone": milestoneID,
		"per_page":  strconv.Itoa(MaxPageSize),
	})

	issues, err := c.listIssues(ctx, urlStr)
	if err != nil {
		return nil, err
	}

	var result []entity.Issue
	for _, issue := range issues {
		if issue.hidden() {
			continue
		}
		result = append(result, issue.toEntity())
	}
	return result, nil
}

// FetchIssuesInProject lists the issues on a classic project board via the
// search API's project qualifier, excluding hidden issues.
func (c *Client) FetchIssuesInProject(ctx context.Context, projectID string) ([]entity.Issue, error) {
	urlStr := c.buildURL("/search/issues", map[string]string{
		"q":        fmt.Sprintf("repo:%s project:%s/%s is:issue", c.repoPath(), c.repoPath(), projectID),
		"per_page": strconv.Itoa(MaxPageSize),
	})

	body, _, err := c.doRequest(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to search project issues: %w", err)
	}

	var search ghSearchResult
	if err := json.Unmarshal(body, &search); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	var result []entity.Issue
	for _, issue := range search.Items {
		if issue.PullRequest != nil || issue.hidden() {
			continue
		}
		result = append(result, issue.toEntity())
	}
	return result, nil
}

// issuePayload builds the request body for issue create/update calls.
func issuePayload(issue entity.Issue, includeState bool) map[string]interface{} {
	payload := map[string]interface{}{
		"title": issue.Title,
		"body":  issue.Description,
	}
	if issue.MilestoneID != "" {
		if number, err := strconv.Atoi(issue.MilestoneID); err == nil {
			payload["milestone"] = number
		}
	}
	if includeState && issue.Status != "" {
		payload["state"] = string(issue.Status)
		if issue.StatusReason != "" {
			payload["state_reason"] = string(issue.StatusReason)
		}
	}
	return payload
}

// CreateIssue creates an issue and, when a project id is set, places it on
// that project board.
func (c *Client) CreateIssue(ctx context.Context, issue entity.Issue) (*entity.Issue, error) {
	urlStr := c.buildURL("/repos/"+c.repoPath()+"/issues", nil)

	body, _, err := c.doRequest(ctx, http.MethodPost, urlStr, issuePayload(issue, false))
	if err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	var created ghIssue
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("failed to parse created issue: %w", err)
	}

	if issue.ProjectID != "" {
		if err := c.addIssueToProject(ctx, issue.ProjectID, created.ID); err != nil {
			return nil, fmt.Errorf("failed to add issue %d to project %s: %w", created.Number, issue.ProjectID, err)
		}
	}

	result := created.toEntity()
	result.ProjectID = issue.ProjectID
	return &result, nil
}

// UpdateIssue pushes a full field update for an existing issue.
func (c *Client) UpdateIssue(ctx context.Context, issue entity.Issue) (*entity.Issue, error) {
	if issue.ID == "" {
		return nil, fmt.Errorf("cannot update issue without id")
	}
	urlStr := c.buildURL("/repos/"+c.repoPath()+"/issues/"+issue.ID, nil)

	body, _, err := c.doRequest(ctx, http.MethodPatch, urlStr, issuePayload(issue, true))
	if err != nil {
		return nil, fmt.Errorf("failed to update issue %s: %w", issue.ID, err)
	}

	var updated ghIssue
	if err := json.Unmarshal(body, &updated); err != nil {
		return nil, fmt.Errorf("failed to parse updated issue: %w", err)
	}

	result := updated.toEntity()
	result.ProjectID = issue.ProjectID
	return &result, nil
}

// HideIssue closes an issue as not planned, which excludes it from
// milestone and project listings.
func (c *Client) HideIssue(ctx context.Context, id string) (*entity.Issue, error) {
	urlStr := c.buildURL("/repos/"+c.repoPath()+"/issues/"+id, nil)

	payload := map[string]interface{}{
		"state":        "closed",
		"state_reason": "not_planned",
	}

	body, _, err := c.doRequest(ctx, http.MethodPatch, urlStr, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to hide issue %s: %w", id, err)
	}

	var hidden ghIssue
	if err := json.Unmarshal(body, &hidden); err != nil {
		return nil, fmt.Errorf("failed to parse hidden issue: %w", err)
	}

	result := hidden.toEntity()
	return &result, nil
}
