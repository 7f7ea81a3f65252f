package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/aidanlsb/mission/internal/entity"
)

// FetchMilestones lists all milestones for the repository.
func (c *Client) FetchMilestones(ctx context.Context) ([]entity.Milestone, error) {
	urlStr := c.buildURL("/repos/"+c.repoPath()+"/milestones", map[string]string{
		"state":    "all",
		"per_page": strconv.Itoa(MaxPageSize),
	})

	var all []entity.Milestone
	for page := 0; page < MaxPages; page++ {
		body, headers, err := c.doRequest(ctx, http.MethodGet, urlStr, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to list milestones: %w", err)
		}

		var milestones []ghMilestone
		if err := json.Unmarshal(body, &milestones); err != nil {
			return nil, fmt.Errorf("failed to parse milestones response: %w", err)
		}
		for _, m := range milestones {
			all = append(all, m.toEntity())
		}

		next, ok := nextPageURL(headers)
		if !ok {
			return all, nil
		}
		urlStr = next
	}

	return all, nil
}

// FetchMilestoneByTitle returns the first milestone with an exact title
// match, or nil when none exists.
func (c *Client) FetchMilestoneByTitle(ctx context.Context, title string) (*entity.Milestone, error) {
	milestones, err := c.FetchMilestones(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range milestones {
		if m.Title == title {
			return &m, nil
		}
	}
	return nil, nil
}

// milestonePayload builds the request body for milestone create/update.
func milestonePayload(milestone entity.Milestone) map[string]interface{} {
	payload := map[string]interface{}{
		"title":       milestone.Title,
		"description": milestone.Description,
	}
	if milestone.Status != "" {
		payload["state"] = string(milestone.Status)
	}
	return payload
}

// CreateMilestone creates a milestone.
func (c *Client) CreateMilestone(ctx context.Context, milestone entity.Milestone) (*entity.Milestone, error) {
	urlStr := c.buildURL("/repos/"+c.repoPath()+"/milestones", nil)

	body, _, err := c.doRequest(ctx, http.MethodPost, urlStr, milestonePayload(milestone))
	if err != nil {
		return nil, fmt.Errorf("failed to create milestone: %w", err)
	}

	var created ghMilestone
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("failed to parse created milestone: %w", err)
	}

	result := created.toEntity()
	return &result, nil
}

// UpdateMilestone pushes a full field update for an existing milestone.
func (c *Client) UpdateMilestone(ctx context.Context, milestone entity.Milestone) (*entity.Milestone, error) {
	if milestone.ID == "" {
		return nil, fmt.Errorf("cannot update milestone without id")
	}
	urlStr := c.buildURL("/repos/"+c.repoPath()+"/milestones/"+milestone.ID, nil)

	body, _, err := c.doRequest(ctx, http.MethodPatch, urlStr, milestonePayload(milestone))
	if err != nil {
		return nil, fmt.Errorf("failed to update milestone %s: %w", milestone.ID, err)
	}

	var updated ghMilestone
	if err := json.Unmarshal(body, &updated); err != nil {
		return nil, fmt.Errorf("failed to parse updated milestone: %w", err)
	}

	result := updated.toEntity()
	return &result, nil
}
