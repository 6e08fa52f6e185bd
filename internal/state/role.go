// ABOUTME: Active role persistence, the role an admin assumes per organization
// ABOUTME: Scoped to one organization so an assumed role never leaks across tenants

package state

import "path/filepath"

// Role names a membership role within an organization.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is a role the gateway knows.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// ActiveRole records the role assumed for a single organization.
type ActiveRole struct {
	OrganizationID string `json:"organization_id"`
	Role           Role   `json:"role"`
}

// RoleStore persists the assumed role. At most one organization has an
// assumed role at a time; assuming a role elsewhere overwrites it.
type RoleStore struct {
	path string
}

// NewRoleStore returns a store backed by activeRole.json under dir.
func NewRoleStore(dir string) *RoleStore {
	return &RoleStore{path: filepath.Join(dir, "activeRole.json")}
}

// Get returns the role assumed for organizationID. The second return is
// false when no role is stored, the stored document is corrupt, the role
// value is unknown, or the stored role belongs to a different
// organization.
func (s *RoleStore) Get(organizationID string) (Role, bool) {
	var rec ActiveRole
	if readDoc(s.path, &rec) != docPresent {
		return "", false
	}
	if rec.OrganizationID != organizationID || !rec.Role.Valid() {
		return "", false
	}
	return rec.Role, true
}

// Set records role as the assumed role for organizationID, replacing any
// previous record regardless of organization.
func (s *RoleStore) Set(organizationID string, role Role) error {
	return writeDoc(s.path, ActiveRole{OrganizationID: organizationID, Role: role})
}

// Clear removes the assumed role. Clearing an absent record is success.
func (s *RoleStore) Clear() error {
	return clearDoc(s.path)
}
