// Package api is the HTTP client for the sigil-gateway control-plane
// API.
//
// # Request Contract
//
// Every authenticated request carries a bearer token minted by the
// session manager for the console's current organization and role. If
// the gateway rejects the bearer with a 401, the client forces exactly
// one token refresh and re-issues the identical request once; the
// second response is final. A request is never sent without a token:
// when none can be acquired, the call fails before any network traffic.
//
// An explicitly supplied static token (SIGIL_TOKEN) bypasses the
// manager and the retry entirely.
//
// # Responses
//
// 2xx responses decode into the caller's value; 204 and empty bodies
// are success with no payload. Non-2xx responses become *Error with the
// status code, the gateway's error message when the body carries one,
// and the raw body otherwise.
//
// # Caching
//
// When constructed with a query cache, GET responses are cached by
// path and mutations invalidate the organization subtree they touch.
package api
