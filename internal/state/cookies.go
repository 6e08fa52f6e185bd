// ABOUTME: Persistent cookie jar carrying the gateway's refresh cookie between runs
// ABOUTME: The only code in the repo that reads or writes cookie bytes

package state

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// storedCookie is the on-disk cookie form. A zero Expires means the
// cookie has no expiry and lives until the server replaces or drops it.
type storedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain"`
	Path     string    `json:"path"`
	Expires  time.Time `json:"expires"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"http_only,omitempty"`
}

func (c storedCookie) expired(now time.Time) bool {
	return !c.Expires.IsZero() && !c.Expires.After(now)
}

// CookieJar implements http.CookieJar backed by a JSON file. Matching is
// host plus path-prefix, which covers a client that talks to a single
// gateway origin. Secure cookies are only presented over https.
type CookieJar struct {
	mu      sync.Mutex
	path    string
	cookies []storedCookie
}

// NewCookieJar loads the jar at path. A missing or corrupt file yields
// an empty jar; expired cookies are dropped on load.
func NewCookieJar(path string) *CookieJar {
	jar := &CookieJar{path: path}
	var cookies []storedCookie
	if readDoc(path, &cookies) == docPresent {
		now := time.Now()
		for _, c := range cookies {
			if !c.expired(now) {
				jar.cookies = append(jar.cookies, c)
			}
		}
	}
	return jar
}

// SetCookies records the cookies from a response. Cookies with a
// negative Max-Age or an expiry in the past are removed. The jar is
// persisted opportunistically; call Save to surface write errors.
func (j *CookieJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	if u == nil || len(cookies) == 0 {
		return
	}
	host := u.Hostname()
	now := time.Now()

	j.mu.Lock()
	defer j.mu.Unlock()
	for _, c := range cookies {
		if c.Name == "" {
			continue
		}
		sc := storedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   strings.TrimPrefix(c.Domain, "."),
			Path:     c.Path,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
		if sc.Domain == "" {
			sc.Domain = host
		}
		if sc.Path == "" {
			sc.Path = "/"
		}
		switch {
		case c.MaxAge < 0:
			j.removeLocked(sc.Domain, sc.Path, sc.Name)
			continue
		case c.MaxAge > 0:
			sc.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		case !c.Expires.IsZero():
			sc.Expires = c.Expires
		}
		if sc.expired(now) {
			j.removeLocked(sc.Domain, sc.Path, sc.Name)
			continue
		}
		j.upsertLocked(sc)
	}
	_ = j.saveLocked()
}

// Cookies returns the cookies to send with a request to u. Expired
// entries are pruned as a side effect.
func (j *CookieJar) Cookies(u *url.URL) []*http.Cookie {
	if u == nil {
		return nil
	}
	host := u.Hostname()
	https := u.Scheme == "https"
	now := time.Now()

	j.mu.Lock()
	defer j.mu.Unlock()
	var out []*http.Cookie
	kept := j.cookies[:0]
	for _, c := range j.cookies {
		if c.expired(now) {
			continue
		}
		kept = append(kept, c)
		if !domainMatch(host, c.Domain) {
			continue
		}
		if !pathMatch(u.Path, c.Path) {
			continue
		}
		if c.Secure && !https {
			continue
		}
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	j.cookies = kept
	return out
}

// Save writes the jar to disk with owner-only permissions.
func (j *CookieJar) Save() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.saveLocked()
}

// Clear empties the jar and persists the empty state. Used when logging
// out while the gateway is unreachable.
func (j *CookieJar) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies = nil
	return j.saveLocked()
}

func (j *CookieJar) saveLocked() error {
	return writeDoc(j.path, j.cookies)
}

func (j *CookieJar) upsertLocked(sc storedCookie) {
	for i, c := range j.cookies {
		if c.Domain == sc.Domain && c.Path == sc.Path && c.Name == sc.Name {
			j.cookies[i] = sc
			return
		}
	}
	j.cookies = append(j.cookies, sc)
}

func (j *CookieJar) removeLocked(domain, path, name string) {
	kept := j.cookies[:0]
	for _, c := range j.cookies {
		if c.Domain == domain && c.Path == path && c.Name == name {
			continue
		}
		kept = append(kept, c)
	}
	j.cookies = kept
}

func domainMatch(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func pathMatch(requestPath, cookiePath string) bool {
	if requestPath == "" {
		requestPath = "/"
	}
	if requestPath == cookiePath {
		return true
	}
	if !strings.HasPrefix(requestPath, cookiePath) {
		return false
	}
	return strings.HasSuffix(cookiePath, "/") || requestPath[len(cookiePath)] == '/'
}
