// ABOUTME: Tests for agent registration and key fingerprinting
// ABOUTME: Verifies fingerprints are computed locally and sent with registrations

package api

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

// testPublicKey returns a deterministic authorized_keys line and the
// fingerprint the gateway would store for it.
func testPublicKey(t *testing.T) (string, string) {
	t.Helper()
	seed := bytes.Repeat([]byte{0x42}, ed25519.SeedSize)
	priv := ed25519.NewKeyFromSeed(seed)

	sshPub, err := ssh.NewPublicKey(priv.Public().(ed25519.PublicKey))
	require.NoError(t, err)

	hash := sha256.Sum256(sshPub.Marshal())
	return string(ssh.MarshalAuthorizedKey(sshPub)), hex.EncodeToString(hash[:])
}

func TestFingerprintPublicKey(t *testing.T) {
	authorized, want := testPublicKey(t)

	got, err := FingerprintPublicKey(authorized)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Len(t, got, 64)
}

func TestFingerprintPublicKey_Invalid(t *testing.T) {
	_, err := FingerprintPublicKey("ssh-ed25519 not-a-key")
	require.Error(t, err)

	_, err = FingerprintPublicKey("")
	require.Error(t, err)
}

func TestClient_RegisterAgent(t *testing.T) {
	authorized, fingerprint := testPublicKey(t)

	tokens := &fakeTokens{token: "tok-1"}
	client, recorder := setupClient(t, tokens, func(_ int, _ *http.Request, w http.ResponseWriter) {
		respondJSON(w, http.StatusCreated, map[string]string{
			"id": "agent-1", "name": "builder", "fingerprint": fingerprint, "status": "pending",
		})
	})

	agent, err := client.RegisterAgent(context.Background(), "org-1", "builder", authorized)
	require.NoError(t, err)
	assert.Equal(t, "agent-1", agent.ID)

	var sent struct {
		Name        string `json:"name"`
		PublicKey   string `json:"public_key"`
		Fingerprint string `json:"fingerprint"`
	}
	require.NoError(t, json.Unmarshal(recorder.request(0).Body, &sent))
	assert.Equal(t, "builder", sent.Name)
	assert.Equal(t, authorized, sent.PublicKey)
	assert.Equal(t, fingerprint, sent.Fingerprint)
}

func TestClient_RegisterAgent_BadKeyFailsBeforeNetwork(t *testing.T) {
	tokens := &fakeTokens{token: "tok-1"}
	client, recorder := setupClient(t, tokens, func(_ int, _ *http.Request, w http.ResponseWriter) {
		w.WriteHeader(http.StatusCreated)
	})

	_, err := client.RegisterAgent(context.Background(), "org-1", "builder", "garbage")
	require.Error(t, err)
	assert.Equal(t, 0, recorder.count())
}
