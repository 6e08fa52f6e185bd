// ABOUTME: Linked external account operations for the authenticated user
// ABOUTME: Lists identity-provider links and removes them

package api

import (
	"context"
	"fmt"
	"net/url"
)

// LinkedAccount is an external identity attached to the user.
type LinkedAccount struct {
	ID         string `json:"id"`
	Provider   string `json:"provider"`
	ExternalID string `json:"external_id"`
	Email      string `json:"email,omitempty"`
	LinkedAt   string `json:"linked_at"`
}

// ListLinkedAccounts returns the external accounts linked to the user.
func (c *Client) ListLinkedAccounts(ctx context.Context) ([]LinkedAccount, error) {
	var out struct {
		Items []LinkedAccount `json:"items"`
		Count int             `json:"count"`
	}
	if err := c.get(ctx, "/v1/me/accounts", &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// LinkAccountURL returns the authorization URL that starts linking an
// account at the given provider. The user completes the flow in a
// browser.
func (c *Client) LinkAccountURL(ctx context.Context, provider string) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	path := fmt.Sprintf("/v1/me/accounts/link/%s", url.PathEscape(provider))
	if err := c.get(ctx, path, &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", fmt.Errorf("gateway returned no authorization url for provider %q", provider)
	}
	return out.URL, nil
}

// UnlinkAccount removes a linked external account.
func (c *Client) UnlinkAccount(ctx context.Context, accountID string) error {
	return c.delete(ctx, fmt.Sprintf("/v1/me/accounts/%s", url.PathEscape(accountID)))
}
