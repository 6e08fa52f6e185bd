// ABOUTME: Expiry inspection for cached access tokens
// ABOUTME: Peeks at JWT exp claims without verifying signatures

package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var peekParser = jwt.NewParser()

// tokenExpiry extracts the expiry of a token when it happens to be a
// JWT with an exp claim. The signature is not checked; the gateway
// verifies tokens, the console only decides when to refresh early.
// Opaque tokens report no expiry and are cached until invalidated.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := peekParser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
