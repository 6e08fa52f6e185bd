// Package state persists console state between invocations: the active
// organization, the active role assumed for it, and the HTTP cookie jar
// that carries the gateway's refresh cookie.
//
// # Storage
//
// Each piece of state is a small JSON document under the XDG state
// directory ($XDG_STATE_HOME/sigil by default):
//
//   - activeOrganization.json: the last organization selected with
//     "sigil-admin orgs use"
//   - activeRole.json: the role assumed via "sigil-admin act-as",
//     scoped to a single organization
//   - cookies.json: the persisted cookie jar
//
// # Corruption Handling
//
// A document that is missing, unreadable, or not valid JSON is reported
// as absent by every getter. Corrupt files are never deleted on read;
// the next Set overwrites them. Clear removes the file and succeeds when
// it is already gone.
//
// # Cookie Boundary
//
// The gateway's refresh credential lives in an HTTP-only cookie. Only
// CookieJar handles cookie bytes; the session manager and API client see
// an *http.Client with the jar attached and nothing more.
package state
