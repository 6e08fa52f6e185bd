// ABOUTME: Agent registration and management within an organization
// ABOUTME: Computes SSH key fingerprints client-side before registering

package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"

	"golang.org/x/crypto/ssh"
)

// Agent is an MCP agent registered with the gateway.
type Agent struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Fingerprint string `json:"fingerprint"`
	Status      string `json:"status"`
	LastSeen    string `json:"last_seen,omitempty"`
}

// ListAgents returns the agents registered in an organization.
func (c *Client) ListAgents(ctx context.Context, organizationID string) ([]Agent, error) {
	var out struct {
		Items []Agent `json:"items"`
		Count int     `json:"count"`
	}
	path := fmt.Sprintf("/v1/orgs/%s/agents", url.PathEscape(organizationID))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// RegisterAgent registers an agent by its SSH public key. The
// fingerprint is computed locally so a mangled key fails before any
// network traffic.
func (c *Client) RegisterAgent(ctx context.Context, organizationID, name, publicKey string) (*Agent, error) {
	fingerprint, err := FingerprintPublicKey(publicKey)
	if err != nil {
		return nil, err
	}

	req := struct {
		Name        string `json:"name"`
		PublicKey   string `json:"public_key"`
		Fingerprint string `json:"fingerprint"`
	}{Name: name, PublicKey: publicKey, Fingerprint: fingerprint}

	var out Agent
	path := fmt.Sprintf("/v1/orgs/%s/agents", url.PathEscape(organizationID))
	if err := c.post(ctx, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAgent removes an agent registration.
func (c *Client) DeleteAgent(ctx context.Context, organizationID, agentID string) error {
	path := fmt.Sprintf("/v1/orgs/%s/agents/%s", url.PathEscape(organizationID), url.PathEscape(agentID))
	return c.delete(ctx, path)
}

// FingerprintPublicKey parses an authorized_keys formatted public key
// and returns its SHA256 fingerprint as lowercase hex without colons,
// the form the gateway stores.
func FingerprintPublicKey(publicKey string) (string, error) {
	pubkey, _, _, _, err := ssh.ParseAuthorizedKey([]byte(publicKey))
	if err != nil {
		return "", fmt.Errorf("invalid public key: %w", err)
	}
	hash := sha256.Sum256(pubkey.Marshal())
	return hex.EncodeToString(hash[:]), nil
}
