// ABOUTME: Team management operations within an organization
// ABOUTME: List, create, and delete teams

package api

import (
	"context"
	"fmt"
	"net/url"
)

// Team groups members within an organization.
type Team struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	MemberCount    int    `json:"member_count"`
	CreatedAt      string `json:"created_at"`
}

// ListTeams returns the teams of an organization.
func (c *Client) ListTeams(ctx context.Context, organizationID string) ([]Team, error) {
	var out struct {
		Items []Team `json:"items"`
		Count int    `json:"count"`
	}
	path := fmt.Sprintf("/v1/orgs/%s/teams", url.PathEscape(organizationID))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// CreateTeam creates a team in an organization.
func (c *Client) CreateTeam(ctx context.Context, organizationID, name, description string) (*Team, error) {
	req := struct {
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
	}{Name: name, Description: description}

	var out Team
	path := fmt.Sprintf("/v1/orgs/%s/teams", url.PathEscape(organizationID))
	if err := c.post(ctx, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTeam removes a team.
func (c *Client) DeleteTeam(ctx context.Context, organizationID, teamID string) error {
	path := fmt.Sprintf("/v1/orgs/%s/teams/%s", url.PathEscape(organizationID), url.PathEscape(teamID))
	return c.delete(ctx, path)
}
