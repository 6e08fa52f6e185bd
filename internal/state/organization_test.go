// ABOUTME: Tests for the active organization cache
// ABOUTME: Covers round-trips, corrupt documents, and clears

package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrgStoreRoundTrip(t *testing.T) {
	store := NewOrgStore(t.TempDir())

	org := ActiveOrganization{ID: "org-1", Name: "Acme", Slug: "acme", Role: RoleAdmin}
	require.NoError(t, store.Set(org))

	got, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, org, *got)
}

func TestOrgStoreAbsent(t *testing.T) {
	store := NewOrgStore(t.TempDir())

	got, ok := store.Get()
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestOrgStoreCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	store := NewOrgStore(dir)

	path := filepath.Join(dir, "activeOrganization.json")
	require.NoError(t, os.WriteFile(path, []byte(`"just a string"`), 0o600))

	_, ok := store.Get()
	assert.False(t, ok)
}

func TestOrgStoreMissingID(t *testing.T) {
	dir := t.TempDir()
	store := NewOrgStore(dir)

	path := filepath.Join(dir, "activeOrganization.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "Acme"}`), 0o600))

	_, ok := store.Get()
	assert.False(t, ok)
}

func TestOrgStoreClearIdempotent(t *testing.T) {
	store := NewOrgStore(t.TempDir())

	require.NoError(t, store.Set(ActiveOrganization{ID: "org-1", Name: "Acme"}))
	require.NoError(t, store.Clear())

	_, ok := store.Get()
	assert.False(t, ok)

	require.NoError(t, store.Clear())
}
