// ABOUTME: Core HTTP client for the gateway API with bearer auth and retry-once
// ABOUTME: Acquires tokens from the session manager and re-issues one request after a 401

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/sigilworks/sigil-console/internal/querycache"
	"github.com/sigilworks/sigil-console/internal/state"
)

// TokenSource mints and refreshes access tokens for the client.
// Satisfied by *session.Manager.
type TokenSource interface {
	GetAccessToken(ctx context.Context, organizationID string, actualRole state.Role) (string, error)
	ForceRefresh(ctx context.Context, organizationID string, actualRole state.Role) (string, error)
}

// IdentitySource reports the organization and actual role the console
// is operating as. The client consults it on every request, so changes
// to the active organization take effect immediately.
type IdentitySource interface {
	ActiveIdentity() (organizationID string, role state.Role)
}

// StaticIdentity is an IdentitySource pinned to one org and role.
type StaticIdentity struct {
	OrganizationID string
	Role           state.Role
}

func (s StaticIdentity) ActiveIdentity() (string, state.Role) {
	return s.OrganizationID, s.Role
}

// Client talks to the gateway control-plane API.
type Client struct {
	baseURL     string
	httpc       *http.Client
	tokens      TokenSource
	identity    IdentitySource
	cache       *querycache.Cache
	logger      *slog.Logger
	userAgent   string
	staticToken string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithCache attaches a response cache for GET requests.
func WithCache(cache *querycache.Cache) ClientOption {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithStaticToken pins every request to the given token. The session
// manager is bypassed and a 401 is returned to the caller without a
// retry, since a static token cannot be refreshed.
func WithStaticToken(token string) ClientOption {
	return func(c *Client) {
		c.staticToken = token
	}
}

// NewClient returns a gateway client. The *http.Client should share
// the cookie jar with the session manager so login responses land in
// the same jar the refresh path reads from. tokens may be nil only
// when WithStaticToken is used.
func NewClient(baseURL string, httpc *http.Client, tokens TokenSource, identity IdentitySource, logger *slog.Logger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		httpc:     httpc,
		tokens:    tokens,
		identity:  identity,
		logger:    logger.With("component", "api"),
		userAgent: "sigil-console",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do runs one authenticated request against the gateway. GETs consult
// the cache first; mutations invalidate the subtree they touch.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.cache != nil && method == http.MethodGet {
		if data, ok := c.cache.Get(path); ok {
			if out == nil {
				return nil
			}
			return json.Unmarshal(data, out)
		}
	}

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s request: %w", method, path, err)
		}
		payload = data
	}

	token := c.staticToken
	canRetry := false
	if token == "" {
		orgID, role := c.currentIdentity()
		tok, err := c.tokens.GetAccessToken(ctx, orgID, role)
		if err != nil {
			// No request goes out without a token.
			return fmt.Errorf("acquiring access token: %w", err)
		}
		token = tok
		canRetry = true
	}

	requestID := uuid.NewString()
	resp, err := c.send(ctx, method, path, payload, token, requestID)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized && canRetry {
		// The gateway rejected the bearer: force one refresh and
		// re-issue the identical request. The second response is final.
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		c.logger.Debug("bearer rejected, forcing token refresh", "method", method, "path", path)
		orgID, role := c.currentIdentity()
		fresh, err := c.tokens.ForceRefresh(ctx, orgID, role)
		if err != nil {
			return fmt.Errorf("refreshing rejected token: %w", err)
		}

		resp, err = c.send(ctx, method, path, payload, fresh, requestID)
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
	}
	defer resp.Body.Close()

	return c.handleResponse(resp, method, path, out, requestID)
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, token, requestID string) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpc.Do(req)
}

func (c *Client) handleResponse(resp *http.Response, method, path string, out any, requestID string) error {
	switch {
	case resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusResetContent:
		c.invalidateAfter(method, path)
		return nil
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return newError(resp, requestID)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s %s response: %w", method, path, err)
	}

	if c.cache != nil && method == http.MethodGet {
		c.cache.Put(path, data)
	}
	c.invalidateAfter(method, path)

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// invalidateAfter drops cached reads made stale by a mutation.
// Everything under the touched organization goes; over-invalidation
// only costs a refetch.
func (c *Client) invalidateAfter(method, path string) {
	if c.cache == nil || method == http.MethodGet {
		return
	}
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	prefix := path
	if len(parts) >= 3 && parts[1] == "orgs" {
		prefix = "/" + strings.Join(parts[:3], "/")
	} else if len(parts) > 1 {
		prefix = "/" + strings.Join(parts[:len(parts)-1], "/")
	}
	c.cache.Invalidate(prefix)
}

func (c *Client) currentIdentity() (string, state.Role) {
	if c.identity == nil {
		return "", state.RoleMember
	}
	return c.identity.ActiveIdentity()
}
