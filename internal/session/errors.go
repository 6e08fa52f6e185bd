// ABOUTME: Error types for token acquisition
// ABOUTME: Sentinel for the unauthenticated state plus typed refresh failures

package session

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned when no valid refresh credential
// exists. The caller should direct the user to log in again.
var ErrNotAuthenticated = errors.New("not authenticated")

// RefreshError reports a token-endpoint failure that is not an
// authentication rejection, such as a 5xx or a rate limit.
type RefreshError struct {
	StatusCode int
	Body       string
}

func (e *RefreshError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("token refresh failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("token refresh failed with status %d: %s", e.StatusCode, e.Body)
}
