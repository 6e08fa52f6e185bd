// ABOUTME: Tests for invitation creation and payload validation
// ABOUTME: Invalid payloads must fail before any network traffic

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigilworks/sigil-console/internal/state"
)

func TestClient_CreateInvitation(t *testing.T) {
	tokens := &fakeTokens{token: "tok-1"}
	client, recorder := setupClient(t, tokens, func(_ int, _ *http.Request, w http.ResponseWriter) {
		respondJSON(w, http.StatusCreated, map[string]string{
			"id": "inv-1", "email": "new@acme.test", "role": "member",
		})
	})

	inv, err := client.CreateInvitation(context.Background(), "org-1", "new@acme.test", state.RoleMember)
	require.NoError(t, err)
	assert.Equal(t, "inv-1", inv.ID)

	var sent struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(recorder.request(0).Body, &sent))
	assert.Equal(t, "new@acme.test", sent.Email)
	assert.Equal(t, "member", sent.Role)
}

func TestClient_CreateInvitation_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		email string
		role  state.Role
	}{
		{"bad email", "not-an-email", state.RoleMember},
		{"empty email", "", state.RoleMember},
		{"unknown role", "new@acme.test", state.Role("owner")},
		{"empty role", "new@acme.test", state.Role("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := &fakeTokens{token: "tok-1"}
			client, recorder := setupClient(t, tokens, func(_ int, _ *http.Request, w http.ResponseWriter) {
				w.WriteHeader(http.StatusCreated)
			})

			_, err := client.CreateInvitation(context.Background(), "org-1", tt.email, tt.role)
			require.Error(t, err)
			assert.Equal(t, 0, recorder.count())
		})
	}
}
