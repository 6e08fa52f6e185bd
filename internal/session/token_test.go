// ABOUTME: Unit tests for token expiry inspection
// ABOUTME: Tests JWT exp extraction and opaque token handling

package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenExpiry_JWT(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	got, ok := tokenExpiry(token)
	if !ok {
		t.Fatal("tokenExpiry() ok = false, want true")
	}
	if !got.Equal(exp) {
		t.Errorf("tokenExpiry() = %v, want %v", got, exp)
	}
}

func TestTokenExpiry_NoClaim(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	if _, ok := tokenExpiry(token); ok {
		t.Error("tokenExpiry() ok = true for token without exp, want false")
	}
}

func TestTokenExpiry_OpaqueTokens(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"opaque string", "st_4f6c1e0a9b"},
		{"malformed JWT", "header.payload.signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := tokenExpiry(tt.token); ok {
				t.Errorf("tokenExpiry(%q) ok = true, want false", tt.token)
			}
		})
	}
}
