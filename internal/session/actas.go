// ABOUTME: Impersonation context attached to token refresh requests
// ABOUTME: Derived from the caller's actual role and the persisted assumed role

package session

import (
	"github.com/sigilworks/sigil-console/internal/state"
)

// ActAs asks the gateway to mint a token scoped to a different role
// within an organization. A nil *ActAs means acting as oneself.
type ActAs struct {
	OrganizationID string     `json:"organization_id"`
	Role           state.Role `json:"role"`
}

// actAsKey returns a stable identity for an impersonation context,
// used to key refresh flights and to detect context changes.
func actAsKey(a *ActAs) string {
	if a == nil {
		return "self"
	}
	return "org:" + a.OrganizationID + ":role:" + string(a.Role)
}

func equalActAs(a, b *ActAs) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
