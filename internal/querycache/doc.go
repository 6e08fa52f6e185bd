// Package querycache provides a TTL-bounded response cache for GET
// requests against the gateway, so repeated lookups within one console
// run reuse fresh results instead of refetching them.
package querycache
