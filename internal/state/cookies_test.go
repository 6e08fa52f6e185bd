// ABOUTME: Tests for the persistent cookie jar
// ABOUTME: Covers persistence across instances, expiry, secure scoping, and path matching

package state

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jarURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestCookieJarRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	jar := NewCookieJar(path)

	u := jarURL(t, "https://gateway.example.com/v1/auth/token")
	jar.SetCookies(u, []*http.Cookie{{
		Name:     "sigil_refresh",
		Value:    "secret",
		Path:     "/v1/auth",
		HttpOnly: true,
		MaxAge:   3600,
	}})

	got := jar.Cookies(jarURL(t, "https://gateway.example.com/v1/auth/token"))
	require.Len(t, got, 1)
	assert.Equal(t, "sigil_refresh", got[0].Name)
	assert.Equal(t, "secret", got[0].Value)
}

func TestCookieJarPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	u := jarURL(t, "https://gateway.example.com/")

	jar := NewCookieJar(path)
	jar.SetCookies(u, []*http.Cookie{{Name: "sigil_refresh", Value: "secret", MaxAge: 3600}})
	require.NoError(t, jar.Save())

	reloaded := NewCookieJar(path)
	got := reloaded.Cookies(u)
	require.Len(t, got, 1)
	assert.Equal(t, "secret", got[0].Value)
}

func TestCookieJarNegativeMaxAgeRemoves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	u := jarURL(t, "https://gateway.example.com/")

	jar := NewCookieJar(path)
	jar.SetCookies(u, []*http.Cookie{{Name: "sigil_refresh", Value: "secret", MaxAge: 3600}})
	jar.SetCookies(u, []*http.Cookie{{Name: "sigil_refresh", Value: "", MaxAge: -1}})

	assert.Empty(t, jar.Cookies(u))
}

func TestCookieJarExpiredDroppedOnLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	doc := `[{"name":"sigil_refresh","value":"secret","domain":"gateway.example.com","path":"/","expires":"2000-01-01T00:00:00Z"}]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	jar := NewCookieJar(path)
	assert.Empty(t, jar.Cookies(jarURL(t, "https://gateway.example.com/")))
}

func TestCookieJarExpiredResponseCookieNotStored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	u := jarURL(t, "https://gateway.example.com/")

	jar := NewCookieJar(path)
	jar.SetCookies(u, []*http.Cookie{{
		Name:    "sigil_refresh",
		Value:   "secret",
		Expires: time.Now().Add(-time.Hour),
	}})

	assert.Empty(t, jar.Cookies(u))
}

func TestCookieJarSecureNotSentOverHTTP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	jar := NewCookieJar(path)

	jar.SetCookies(jarURL(t, "https://gateway.example.com/"), []*http.Cookie{{
		Name:   "sigil_refresh",
		Value:  "secret",
		Secure: true,
		MaxAge: 3600,
	}})

	assert.Empty(t, jar.Cookies(jarURL(t, "http://gateway.example.com/")))
	assert.Len(t, jar.Cookies(jarURL(t, "https://gateway.example.com/")), 1)
}

func TestCookieJarPathScoping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	jar := NewCookieJar(path)

	jar.SetCookies(jarURL(t, "https://gateway.example.com/v1/auth/token"), []*http.Cookie{{
		Name:   "sigil_refresh",
		Value:  "secret",
		Path:   "/v1/auth",
		MaxAge: 3600,
	}})

	assert.Len(t, jar.Cookies(jarURL(t, "https://gateway.example.com/v1/auth/token")), 1)
	assert.Len(t, jar.Cookies(jarURL(t, "https://gateway.example.com/v1/auth")), 1)
	assert.Empty(t, jar.Cookies(jarURL(t, "https://gateway.example.com/v1/orgs")))
	assert.Empty(t, jar.Cookies(jarURL(t, "https://gateway.example.com/v1/authx")))
}

func TestCookieJarOtherHostNotMatched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	jar := NewCookieJar(path)

	jar.SetCookies(jarURL(t, "https://gateway.example.com/"), []*http.Cookie{{
		Name:   "sigil_refresh",
		Value:  "secret",
		MaxAge: 3600,
	}})

	assert.Empty(t, jar.Cookies(jarURL(t, "https://other.example.org/")))
}

func TestCookieJarCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte("{{{{"), 0o600))

	jar := NewCookieJar(path)
	assert.Empty(t, jar.Cookies(jarURL(t, "https://gateway.example.com/")))

	// The jar must recover by overwriting the corrupt file.
	jar.SetCookies(jarURL(t, "https://gateway.example.com/"), []*http.Cookie{{
		Name: "sigil_refresh", Value: "secret", MaxAge: 3600,
	}})
	require.NoError(t, jar.Save())

	reloaded := NewCookieJar(path)
	assert.Len(t, reloaded.Cookies(jarURL(t, "https://gateway.example.com/")), 1)
}

func TestCookieJarClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	u := jarURL(t, "https://gateway.example.com/")

	jar := NewCookieJar(path)
	jar.SetCookies(u, []*http.Cookie{{Name: "sigil_refresh", Value: "secret", MaxAge: 3600}})
	require.NoError(t, jar.Clear())

	assert.Empty(t, jar.Cookies(u))
	assert.Empty(t, NewCookieJar(path).Cookies(u))
}
