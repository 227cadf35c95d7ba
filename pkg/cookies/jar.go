// Package cookies provides an http.CookieJar whose cookies for a single API
// origin survive process restarts. It exists so that an HTTP-only refresh
// credential set by the API server keeps working between CLI invocations.
// Nothing outside the HTTP transport ever reads the cookies it holds.
package cookies

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/topcv/jobboard/pkg/file"
	"golang.org/x/net/publicsuffix"
)

type storedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"httpOnly,omitempty"`
}

// key mirrors how a cookie jar tells cookies apart: a cookie replaces
// another only if name, domain and path all match.
func (s storedCookie) key() string {
	return s.Name + ";" + s.Domain + ";" + s.Path
}

func (s storedCookie) cookie() *http.Cookie {
	return &http.Cookie{
		Name:     s.Name,
		Value:    s.Value,
		Path:     s.Path,
		Domain:   s.Domain,
		Expires:  s.Expires,
		Secure:   s.Secure,
		HttpOnly: s.HttpOnly,
	}
}

func (s storedCookie) expired(now time.Time) bool {
	return !s.Expires.IsZero() && !s.Expires.After(now)
}

// Jar is a persistent http.CookieJar scoped to one origin. Cookies for other
// hosts are held in memory only.
type Jar struct {
	mu      sync.Mutex
	jar     *cookiejar.Jar
	path    string
	origin  *url.URL
	stored  map[string]storedCookie
	saveErr error
	now     func() time.Time
}

// NewJar returns a Jar that persists cookies set by the host of apiAddress to
// the file at path, restoring any unexpired cookies already saved there.
func NewJar(path string, apiAddress string) (*Jar, error) {
	origin, err := url.Parse(apiAddress)
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing API address %q", apiAddress)
	}
	jar, err := cookiejar.New(
		&cookiejar.Options{PublicSuffixList: publicsuffix.List},
	)
	if err != nil {
		return nil, errors.Wrap(err, "error creating cookie jar")
	}
	j := &Jar{
		jar:    jar,
		path:   path,
		origin: origin,
		stored: map[string]storedCookie{},
		now:    time.Now,
	}
	if err := j.load(); err != nil {
		return nil, err
	}
	return j, nil
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	return j.jar.Cookies(u)
}

// SetCookies implements http.CookieJar.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.jar.SetCookies(u, cookies)
	if u.Hostname() != j.origin.Hostname() {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.now()
	for _, cookie := range cookies {
		stored := storedCookie{
			Name:     cookie.Name,
			Value:    cookie.Value,
			Path:     cookie.Path,
			Domain:   cookie.Domain,
			Expires:  cookie.Expires,
			Secure:   cookie.Secure,
			HttpOnly: cookie.HttpOnly,
		}
		if !strings.HasPrefix(stored.Path, "/") {
			stored.Path = defaultPath(u.Path)
		}
		if cookie.MaxAge > 0 {
			stored.Expires = now.Add(time.Duration(cookie.MaxAge) * time.Second)
		}
		if cookie.MaxAge < 0 || stored.expired(now) {
			delete(j.stored, stored.key())
			continue
		}
		j.stored[stored.key()] = stored
	}
	j.saveErr = j.save()
}

// Err returns the error, if any, from the most recent attempt to persist
// cookies. http.CookieJar offers no other way to surface it.
func (j *Jar) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.saveErr
}

func (j *Jar) load() error {
	if !file.Exists(j.path) {
		return nil
	}
	storedBytes, err := ioutil.ReadFile(j.path)
	if err != nil {
		return errors.Wrapf(err, "error reading cookies from %s", j.path)
	}
	stored := []storedCookie{}
	if err := json.Unmarshal(storedBytes, &stored); err != nil {
		// Losing cookies only costs the user a fresh login.
		return nil
	}
	now := j.now()
	restored := []*http.Cookie{}
	for _, s := range stored {
		if s.expired(now) {
			continue
		}
		if !strings.HasPrefix(s.Path, "/") {
			s.Path = "/"
		}
		j.stored[s.key()] = s
		restored = append(restored, s.cookie())
	}
	j.jar.SetCookies(j.origin, restored)
	return nil
}

// defaultPath is the path a cookie set without one is scoped to, per
// RFC 6265 section 5.1.4.
func defaultPath(requestPath string) string {
	i := strings.LastIndex(requestPath, "/")
	if i <= 0 {
		return "/"
	}
	return requestPath[:i]
}

func (j *Jar) save() error {
	if len(j.stored) == 0 {
		if err := os.Remove(j.path); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "error deleting %s", j.path)
		}
		return nil
	}
	stored := make([]storedCookie, 0, len(j.stored))
	for _, s := range j.stored {
		stored = append(stored, s)
	}
	storedBytes, err := json.Marshal(stored)
	if err != nil {
		return errors.Wrap(err, "error marshaling cookies")
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0700); err != nil {
		return errors.Wrapf(err, "error creating %s", filepath.Dir(j.path))
	}
	if err := ioutil.WriteFile(j.path, storedBytes, 0600); err != nil {
		return errors.Wrapf(err, "error writing cookies to %s", j.path)
	}
	return nil
}
