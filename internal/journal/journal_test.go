// ABOUTME: Tests for the console command journal
// ABOUTME: Covers Append and List with filtering against an in-memory database

package journal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestJournal(t *testing.T) *Journal {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	j, err := Open(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestJournal_Append(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	entry := &Entry{
		Command:        "orgs create",
		OrganizationID: "org-1",
		Target:         "acme",
		Detail:         map[string]any{"slug": "acme"},
	}

	err := j.Append(ctx, entry)
	require.NoError(t, err)

	// Should have generated ID, timestamp, and default outcome
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.Timestamp.IsZero())
	assert.Equal(t, OutcomeOK, entry.Outcome)
}

func TestJournal_List_NoFilter(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i, cmd := range []string{"orgs create", "members set-role", "apps push"} {
		entry := &Entry{
			Command:   cmd,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, j.Append(ctx, entry))
	}

	entries, err := j.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	// Newest first
	assert.Equal(t, "apps push", entries[0].Command)
	assert.Equal(t, "orgs create", entries[2].Command)
}

func TestJournal_List_ByCommand(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	for i, cmd := range []string{"orgs create", "apps push", "orgs create"} {
		entry := &Entry{
			Command: cmd,
			Target:  fmt.Sprintf("target-%d", i),
		}
		require.NoError(t, j.Append(ctx, entry))
	}

	cmd := "orgs create"
	entries, err := j.List(ctx, Filter{Command: &cmd})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, "orgs create", e.Command)
	}
}

func TestJournal_List_ByOrganization(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	for _, org := range []string{"org-1", "org-2", "org-1", ""} {
		entry := &Entry{
			Command:        "teams create",
			OrganizationID: org,
		}
		require.NoError(t, j.Append(ctx, entry))
	}

	org := "org-1"
	entries, err := j.List(ctx, Filter{OrganizationID: &org})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestJournal_List_ByOutcome(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	outcomes := []Outcome{OutcomeOK, OutcomeError, OutcomeOK}
	for _, o := range outcomes {
		require.NoError(t, j.Append(ctx, &Entry{Command: "apps push", Outcome: o}))
	}

	failed := OutcomeError
	entries, err := j.List(ctx, Filter{Outcome: &failed})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, OutcomeError, entries[0].Outcome)
}

func TestJournal_List_BySince(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		entry := &Entry{
			Command:   "orgs rename",
			Timestamp: base.Add(time.Duration(i) * 10 * time.Minute),
		}
		require.NoError(t, j.Append(ctx, entry))
	}

	since := base.Add(15 * time.Minute)
	entries, err := j.List(ctx, Filter{Since: &since})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestJournal_List_Limit(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, j.Append(ctx, &Entry{Command: "status"}))
	}

	entries, err := j.List(ctx, Filter{Limit: 4})
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestJournal_List_Empty(t *testing.T) {
	j := setupTestJournal(t)

	entries, err := j.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestJournal_DetailRoundTrip(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	in := &Entry{
		Command: "members set-role",
		Target:  "user-9",
		Detail:  map[string]any{"from": "member", "to": "admin"},
	}
	require.NoError(t, j.Append(ctx, in))

	entries, err := j.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "admin", entries[0].Detail["to"])
	assert.Equal(t, "user-9", entries[0].Target)
}

func TestOpen_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "console.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	j, err := Open(path, logger)
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.Append(context.Background(), &Entry{Command: "login"}))

	entries, err := j.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestNormalizeLimit(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, 50},
		{-5, 50},
		{20, 20},
		{500, 500},
		{9999, 500},
	}
	for _, tt := range tests {
		if got := normalizeLimit(tt.in); got != tt.want {
			t.Errorf("normalizeLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
