// ABOUTME: App configuration operations, the MCP server definitions the gateway serves
// ABOUTME: List, fetch, push, and delete app configs per organization

package api

import (
	"context"
	"fmt"
	"net/url"
)

// AppConfig defines an MCP server the gateway makes available to an
// organization's agents.
type AppConfig struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Transport   string            `json:"transport"`
	Command     string            `json:"command,omitempty"`
	Args        []string          `json:"args,omitempty"`
	URL         string            `json:"url,omitempty"`
	Env         map[string]string `json:"env,omitempty"`
	MaxSessions int               `json:"max_sessions,omitempty"`
	UpdatedAt   string            `json:"updated_at,omitempty"`
}

// ListAppConfigs returns the app configs of an organization.
func (c *Client) ListAppConfigs(ctx context.Context, organizationID string) ([]AppConfig, error) {
	var out struct {
		Items []AppConfig `json:"items"`
		Count int         `json:"count"`
	}
	path := fmt.Sprintf("/v1/orgs/%s/apps", url.PathEscape(organizationID))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// GetAppConfig returns one app config by name.
func (c *Client) GetAppConfig(ctx context.Context, organizationID, name string) (*AppConfig, error) {
	var out AppConfig
	path := fmt.Sprintf("/v1/orgs/%s/apps/%s", url.PathEscape(organizationID), url.PathEscape(name))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PushAppConfig creates or replaces an app config. The name in cfg
// addresses the config.
func (c *Client) PushAppConfig(ctx context.Context, organizationID string, cfg AppConfig) (*AppConfig, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("app config has no name")
	}

	var out AppConfig
	path := fmt.Sprintf("/v1/orgs/%s/apps/%s", url.PathEscape(organizationID), url.PathEscape(cfg.Name))
	if err := c.put(ctx, path, cfg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAppConfig removes an app config.
func (c *Client) DeleteAppConfig(ctx context.Context, organizationID, name string) error {
	path := fmt.Sprintf("/v1/orgs/%s/apps/%s", url.PathEscape(organizationID), url.PathEscape(name))
	return c.delete(ctx, path)
}
