// ABOUTME: Member management operations within an organization
// ABOUTME: List members, change roles, and remove memberships

package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sigilworks/sigil-console/internal/state"
)

// Member is a user's membership in an organization.
type Member struct {
	UserID   string     `json:"user_id"`
	Email    string     `json:"email"`
	Name     string     `json:"name"`
	Role     state.Role `json:"role"`
	JoinedAt string     `json:"joined_at"`
}

// ListMembers returns the members of an organization.
func (c *Client) ListMembers(ctx context.Context, organizationID string) ([]Member, error) {
	var out struct {
		Items []Member `json:"items"`
		Count int      `json:"count"`
	}
	path := fmt.Sprintf("/v1/orgs/%s/members", url.PathEscape(organizationID))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// SetMemberRole changes a member's role within an organization.
func (c *Client) SetMemberRole(ctx context.Context, organizationID, userID string, role state.Role) (*Member, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	req := struct {
		Role state.Role `json:"role"`
	}{Role: role}

	var out Member
	path := fmt.Sprintf("/v1/orgs/%s/members/%s", url.PathEscape(organizationID), url.PathEscape(userID))
	if err := c.put(ctx, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveMember removes a user from an organization.
func (c *Client) RemoveMember(ctx context.Context, organizationID, userID string) error {
	path := fmt.Sprintf("/v1/orgs/%s/members/%s", url.PathEscape(organizationID), url.PathEscape(userID))
	return c.delete(ctx, path)
}
