// ABOUTME: Access token manager with caching, impersonation, and refresh coalescing
// ABOUTME: Talks to the gateway token endpoint through a cookie-jar-bearing HTTP client

package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sigilworks/sigil-console/internal/state"
)

const (
	tokenPath     = "/v1/auth/token"
	defaultLeeway = 30 * time.Second
)

// RoleStore reports the role assumed for an organization, if any.
// Satisfied by *state.RoleStore.
type RoleStore interface {
	Get(organizationID string) (state.Role, bool)
}

// Manager caches the current access token and refreshes it against the
// gateway token endpoint. It is safe for concurrent use.
type Manager struct {
	endpoint string
	httpc    *http.Client
	roles    RoleStore
	logger   *slog.Logger
	leeway   time.Duration

	mu    sync.Mutex
	token string
	actAs *ActAs
	gen   uint64

	flight singleflight.Group
}

// Option configures a Manager.
type Option func(*Manager)

// WithExpiryLeeway sets how long before a token's exp claim the Manager
// treats it as stale and refreshes early.
func WithExpiryLeeway(d time.Duration) Option {
	return func(m *Manager) {
		m.leeway = d
	}
}

// NewManager returns a Manager refreshing against gatewayURL. The
// *http.Client must carry the cookie jar that holds the refresh
// credential; the Manager itself never touches cookies.
func NewManager(gatewayURL string, httpc *http.Client, roles RoleStore, logger *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		endpoint: strings.TrimRight(gatewayURL, "/") + tokenPath,
		httpc:    httpc,
		roles:    roles,
		logger:   logger.With("component", "session"),
		leeway:   defaultLeeway,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetAccessToken returns a token for requests made as actualRole within
// organizationID, refreshing if needed. Concurrent callers with the
// same impersonation context share a single refresh. A 401 from the
// token endpoint clears all session state and returns
// ErrNotAuthenticated.
func (m *Manager) GetAccessToken(ctx context.Context, organizationID string, actualRole state.Role) (string, error) {
	want := m.desiredActAs(organizationID, actualRole)

	m.mu.Lock()
	if !equalActAs(m.actAs, want) {
		// The cached token was minted for a different impersonation
		// context and must not be reused.
		m.token = ""
		m.actAs = want
	}
	if m.token != "" && !m.stale(m.token) {
		tok := m.token
		m.mu.Unlock()
		return tok, nil
	}
	m.token = ""
	key := flightKey(m.gen, m.actAs)
	m.mu.Unlock()

	return m.refresh(ctx, key, want)
}

// ForceRefresh discards any cached token for the context and fetches a
// fresh one. Used by the transport layer after the gateway rejects a
// bearer token. A force may join a refresh already in flight for the
// same context; the joined result is still newer than the rejected
// token.
func (m *Manager) ForceRefresh(ctx context.Context, organizationID string, actualRole state.Role) (string, error) {
	want := m.desiredActAs(organizationID, actualRole)

	m.mu.Lock()
	m.token = ""
	m.actAs = want
	key := flightKey(m.gen, m.actAs)
	m.mu.Unlock()

	return m.refresh(ctx, key, want)
}

// SetAccessToken overwrites the cached token without validation or
// network traffic. Used after an explicit login, where the login
// response already carried a token. An empty string drops the cached
// token only.
func (m *Manager) SetAccessToken(token string) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
}

// ClearToken resets the Manager to the unauthenticated state.
// Idempotent. A refresh still in flight completes harmlessly: its
// result is never installed and later callers never join it.
func (m *Manager) ClearToken() {
	m.mu.Lock()
	m.clearLocked()
	m.mu.Unlock()
}

// desiredActAs decides the impersonation context for a token request.
// Only admins impersonate, and only when a member role is on record
// for the exact organization being addressed.
func (m *Manager) desiredActAs(organizationID string, actualRole state.Role) *ActAs {
	if actualRole != state.RoleAdmin || organizationID == "" {
		return nil
	}
	role, ok := m.roles.Get(organizationID)
	if !ok || role != state.RoleMember {
		return nil
	}
	return &ActAs{OrganizationID: organizationID, Role: state.RoleMember}
}

func (m *Manager) stale(token string) bool {
	exp, ok := tokenExpiry(token)
	if !ok {
		return false
	}
	return !time.Now().Add(m.leeway).Before(exp)
}

func (m *Manager) clearLocked() {
	m.token = ""
	m.actAs = nil
	m.gen++
}

// flightKey identifies one refresh flight. The generation counter
// advances whenever session state is torn down, so callers after a
// clear never join a flight started before it.
func flightKey(gen uint64, a *ActAs) string {
	return strconv.FormatUint(gen, 10) + "/" + actAsKey(a)
}

func (m *Manager) refresh(ctx context.Context, key string, want *ActAs) (string, error) {
	v, err, _ := m.flight.Do(key, func() (any, error) {
		m.logger.Debug("refreshing access token", "context", actAsKey(want))
		tok, err := m.requestToken(ctx, want)
		if err != nil {
			if errors.Is(err, ErrNotAuthenticated) {
				m.logger.Debug("refresh credential rejected, clearing session")
				m.clearIfCurrent(key)
			}
			return "", err
		}
		m.installIfCurrent(key, tok)
		return tok, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// installIfCurrent caches the token only when the Manager still wants
// this flight's context. A stale flight returns its token to its own
// callers but never overwrites state for a newer context.
func (m *Manager) installIfCurrent(key, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if flightKey(m.gen, m.actAs) == key {
		m.token = token
	}
}

func (m *Manager) clearIfCurrent(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if flightKey(m.gen, m.actAs) == key {
		m.clearLocked()
	}
}

type tokenRequest struct {
	ActAs *ActAs `json:"act_as,omitempty"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (m *Manager) requestToken(ctx context.Context, actAs *ActAs) (string, error) {
	body, err := json.Marshal(tokenRequest{ActAs: actAs})
	if err != nil {
		return "", fmt.Errorf("encoding token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpc.Do(req)
	if err != nil {
		if errors.Is(err, ErrNotAuthenticated) {
			return "", ErrNotAuthenticated
		}
		return "", fmt.Errorf("requesting access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", ErrNotAuthenticated
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return "", &RefreshError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if tr.Token == "" {
		return "", fmt.Errorf("token response missing token")
	}
	return tr.Token, nil
}
