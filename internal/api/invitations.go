// ABOUTME: Invitation operations for bringing users into an organization
// ABOUTME: Validates invitation payloads locally before any network traffic

package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"

	"github.com/sigilworks/sigil-console/internal/state"
)

var validate = validator.New()

// Invitation is a pending offer of membership in an organization.
type Invitation struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Role      state.Role `json:"role"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt string     `json:"expires_at"`
	CreatedAt string     `json:"created_at"`
}

type createInvitationRequest struct {
	Email string     `json:"email" validate:"required,email"`
	Role  state.Role `json:"role" validate:"required,oneof=admin member"`
}

// ListInvitations returns the pending invitations of an organization.
func (c *Client) ListInvitations(ctx context.Context, organizationID string) ([]Invitation, error) {
	var out struct {
		Items []Invitation `json:"items"`
		Count int          `json:"count"`
	}
	path := fmt.Sprintf("/v1/orgs/%s/invitations", url.PathEscape(organizationID))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// CreateInvitation invites an email address into an organization with
// the given role.
func (c *Client) CreateInvitation(ctx context.Context, organizationID, email string, role state.Role) (*Invitation, error) {
	req := createInvitationRequest{Email: email, Role: role}
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid invitation: %w", err)
	}

	var out Invitation
	path := fmt.Sprintf("/v1/orgs/%s/invitations", url.PathEscape(organizationID))
	if err := c.post(ctx, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RevokeInvitation withdraws a pending invitation.
func (c *Client) RevokeInvitation(ctx context.Context, organizationID, invitationID string) error {
	path := fmt.Sprintf("/v1/orgs/%s/invitations/%s", url.PathEscape(organizationID), url.PathEscape(invitationID))
	return c.delete(ctx, path)
}
