// ABOUTME: Active organization cache, the org targeted by org-scoped commands
// ABOUTME: Persists the last selection from "orgs use" and clears on logout

package state

import (
	"errors"
	"path/filepath"
)

// ErrNoActiveOrganization indicates an org-scoped operation ran with no
// organization selected.
var ErrNoActiveOrganization = errors.New("no active organization")

// ActiveOrganization caches the organization the console operates on,
// along with the user's actual membership role in it as reported by
// the gateway at selection time.
type ActiveOrganization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Role Role   `json:"role"`
}

// OrgStore persists the active organization selection.
type OrgStore struct {
	path string
}

// NewOrgStore returns a store backed by activeOrganization.json under dir.
func NewOrgStore(dir string) *OrgStore {
	return &OrgStore{path: filepath.Join(dir, "activeOrganization.json")}
}

// Get returns the cached organization, or false when none is stored or
// the document is corrupt. An entry without an ID counts as absent.
func (s *OrgStore) Get() (*ActiveOrganization, bool) {
	var org ActiveOrganization
	if readDoc(s.path, &org) != docPresent {
		return nil, false
	}
	if org.ID == "" {
		return nil, false
	}
	return &org, true
}

// Set records org as the active organization.
func (s *OrgStore) Set(org ActiveOrganization) error {
	return writeDoc(s.path, org)
}

// Clear removes the cached organization. Clearing an absent record is
// success.
func (s *OrgStore) Clear() error {
	return clearDoc(s.path)
}
