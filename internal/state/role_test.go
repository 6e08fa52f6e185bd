// ABOUTME: Tests for active role persistence and cross-organization isolation
// ABOUTME: Covers corrupt documents, unknown roles, and idempotent clears

package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleStoreRoundTrip(t *testing.T) {
	store := NewRoleStore(t.TempDir())

	require.NoError(t, store.Set("org-1", RoleMember))

	role, ok := store.Get("org-1")
	assert.True(t, ok)
	assert.Equal(t, RoleMember, role)
}

func TestRoleStoreAbsent(t *testing.T) {
	store := NewRoleStore(t.TempDir())

	_, ok := store.Get("org-1")
	assert.False(t, ok)
}

func TestRoleStoreOrganizationIsolation(t *testing.T) {
	store := NewRoleStore(t.TempDir())

	require.NoError(t, store.Set("org-1", RoleMember))

	// A role assumed in one organization is invisible from another.
	_, ok := store.Get("org-2")
	assert.False(t, ok)

	role, ok := store.Get("org-1")
	assert.True(t, ok)
	assert.Equal(t, RoleMember, role)
}

func TestRoleStoreSetOverwritesOtherOrganization(t *testing.T) {
	store := NewRoleStore(t.TempDir())

	require.NoError(t, store.Set("org-1", RoleMember))
	require.NoError(t, store.Set("org-2", RoleAdmin))

	_, ok := store.Get("org-1")
	assert.False(t, ok)

	role, ok := store.Get("org-2")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, role)
}

func TestRoleStoreCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	store := NewRoleStore(dir)

	path := filepath.Join(dir, "activeRole.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, ok := store.Get("org-1")
	assert.False(t, ok)

	// A corrupt document is recoverable: the next Set replaces it.
	require.NoError(t, store.Set("org-1", RoleMember))
	role, ok := store.Get("org-1")
	assert.True(t, ok)
	assert.Equal(t, RoleMember, role)
}

func TestRoleStoreUnknownRoleValue(t *testing.T) {
	dir := t.TempDir()
	store := NewRoleStore(dir)

	path := filepath.Join(dir, "activeRole.json")
	doc := `{"organization_id": "org-1", "role": "superuser"}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	_, ok := store.Get("org-1")
	assert.False(t, ok)
}

func TestRoleStoreClearIdempotent(t *testing.T) {
	store := NewRoleStore(t.TempDir())

	require.NoError(t, store.Set("org-1", RoleMember))
	require.NoError(t, store.Clear())

	_, ok := store.Get("org-1")
	assert.False(t, ok)

	// Clearing again must not fail.
	require.NoError(t, store.Clear())
}
