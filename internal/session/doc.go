// Package session manages the gateway access token for the console.
//
// # Token Lifecycle
//
// The gateway issues short-lived access tokens against a long-lived
// refresh credential that lives in an HTTP-only cookie. The Manager
// caches the current access token in memory and refreshes it on demand
// by POSTing to the token endpoint; the cookie jar on the injected
// *http.Client attaches the refresh credential, so no code in this
// package ever sees it.
//
// # Impersonation
//
// Admins can act as a plain member of an organization. When the caller
// is an admin and the state store holds a member role for the requested
// organization, refresh requests carry an act_as clause and the minted
// token is scoped down accordingly. Changing the impersonation context
// invalidates the cached token immediately: a token minted for one
// context is never served for another.
//
// # Concurrency
//
// Concurrent token requests for the same context coalesce into a single
// network refresh via singleflight. The flight runs on the first
// caller's context; joiners share its result. A refresh that completes
// after the context has moved on returns its token to its own callers
// but never overwrites the cache.
//
// # Failure Modes
//
// A 401 from the token endpoint means the refresh credential is gone;
// the Manager drops all state and returns ErrNotAuthenticated. Any
// other failure is surfaced as *RefreshError or a wrapped transport
// error without logging the caller out.
package session
