// ABOUTME: Organization management operations
// ABOUTME: CRUD against the gateway's organization collection

package api

import (
	"context"
	"fmt"
	"net/url"
)

// Organization is a tenant on the gateway.
type Organization struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	CreatedAt string `json:"created_at"`
}

// ListOrganizations returns the organizations visible to the caller.
func (c *Client) ListOrganizations(ctx context.Context) ([]Organization, error) {
	var out struct {
		Items []Organization `json:"items"`
		Count int            `json:"count"`
	}
	if err := c.get(ctx, "/v1/orgs", &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// GetOrganization returns one organization by ID.
func (c *Client) GetOrganization(ctx context.Context, organizationID string) (*Organization, error) {
	var out Organization
	path := fmt.Sprintf("/v1/orgs/%s", url.PathEscape(organizationID))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateOrganization creates a new organization.
func (c *Client) CreateOrganization(ctx context.Context, name, slug string) (*Organization, error) {
	req := struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}{Name: name, Slug: slug}

	var out Organization
	if err := c.post(ctx, "/v1/orgs", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RenameOrganization updates an organization's display name.
func (c *Client) RenameOrganization(ctx context.Context, organizationID, name string) (*Organization, error) {
	req := struct {
		Name string `json:"name"`
	}{Name: name}

	var out Organization
	path := fmt.Sprintf("/v1/orgs/%s", url.PathEscape(organizationID))
	if err := c.put(ctx, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteOrganization removes an organization and everything under it.
func (c *Client) DeleteOrganization(ctx context.Context, organizationID string) error {
	return c.delete(ctx, fmt.Sprintf("/v1/orgs/%s", url.PathEscape(organizationID)))
}
