// ABOUTME: Identity lookup for the authenticated user
// ABOUTME: Returns the user's profile and organization memberships

package api

import (
	"context"

	"github.com/sigilworks/sigil-console/internal/state"
)

// OrgMembership is one organization the user belongs to, with their
// actual role in it.
type OrgMembership struct {
	OrganizationID string     `json:"organization_id"`
	Name           string     `json:"name"`
	Slug           string     `json:"slug"`
	Role           state.Role `json:"role"`
}

// Identity is the authenticated user's view of themselves.
type Identity struct {
	UserID        string          `json:"user_id"`
	Email         string          `json:"email"`
	Name          string          `json:"name"`
	Organizations []OrgMembership `json:"organizations"`
}

// Me returns the authenticated user's identity and memberships.
func (c *Client) Me(ctx context.Context) (*Identity, error) {
	var out Identity
	if err := c.get(ctx, "/v1/me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MembershipFor returns the user's membership in the given
// organization, if any.
func (i *Identity) MembershipFor(organizationID string) (OrgMembership, bool) {
	for _, m := range i.Organizations {
		if m.OrganizationID == organizationID {
			return m, true
		}
	}
	return OrgMembership{}, false
}
