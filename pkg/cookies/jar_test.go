package cookies

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/topcv/jobboard/pkg/file"
)

func newTestServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(
			w,
			&http.Cookie{
				Name:     "refresh_token",
				Value:    "opaque",
				Path:     "/",
				MaxAge:   3600,
				HttpOnly: true,
			},
		)
	})
	mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(
			w,
			&http.Cookie{Name: "refresh_token", Value: "", Path: "/", MaxAge: -1},
		)
	})
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(
			w,
			&http.Cookie{
				Name:     "refresh_token",
				Value:    "scoped",
				Path:     "/api",
				MaxAge:   3600,
				HttpOnly: true,
			},
		)
	})
	mux.HandleFunc("/secure/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(
			w,
			&http.Cookie{
				Name:     "refresh_token",
				Value:    "secret",
				Path:     "/",
				MaxAge:   3600,
				Secure:   true,
				HttpOnly: true,
			},
		)
	})
	echo := func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("refresh_token"); err == nil {
			w.Write([]byte(cookie.Value)) // nolint: errcheck
		}
	}
	mux.HandleFunc("/echo", echo)
	mux.HandleFunc("/api/echo", echo)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func get(t *testing.T, jar http.CookieJar, url string) string {
	resp, err := (&http.Client{Jar: jar}).Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func tempCookiesPath(t *testing.T) string {
	dir, err := ioutil.TempDir("", "jobboard-cookies-test")
	require.NoError(t, err)
	t.Cleanup(func() {
		os.RemoveAll(dir)
	})
	return filepath.Join(dir, "cookies")
}

func TestJarPersistsAcrossInstances(t *testing.T) {
	server := newTestServer(t)
	path := tempCookiesPath(t)

	jar, err := NewJar(path, server.URL)
	require.NoError(t, err)
	get(t, jar, server.URL+"/login")
	require.NoError(t, jar.Err())
	require.Equal(t, "opaque", get(t, jar, server.URL+"/echo"))
	require.True(t, file.Exists(path))

	jar, err = NewJar(path, server.URL)
	require.NoError(t, err)
	require.Equal(t, "opaque", get(t, jar, server.URL+"/echo"))
}

func TestJarForgetsDeletedCookies(t *testing.T) {
	server := newTestServer(t)
	path := tempCookiesPath(t)

	jar, err := NewJar(path, server.URL)
	require.NoError(t, err)
	get(t, jar, server.URL+"/login")
	get(t, jar, server.URL+"/logout")
	require.Empty(t, get(t, jar, server.URL+"/echo"))
	require.False(t, file.Exists(path))

	jar, err = NewJar(path, server.URL)
	require.NoError(t, err)
	require.Empty(t, get(t, jar, server.URL+"/echo"))
}

func TestJarSkipsExpiredCookiesOnLoad(t *testing.T) {
	server := newTestServer(t)
	path := tempCookiesPath(t)

	jar, err := NewJar(path, server.URL)
	require.NoError(t, err)
	get(t, jar, server.URL+"/login")

	jar, err = NewJar(path, server.URL)
	require.NoError(t, err)
	require.Len(t, jar.stored, 1)
	jar.stored = map[string]storedCookie{}
	jar.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	require.NoError(t, jar.load())
	require.Empty(t, jar.stored)
}

func TestNewJarBadAddress(t *testing.T) {
	_, err := NewJar(tempCookiesPath(t), "://nope")
	require.Error(t, err)
}

func TestJarRestoresCookieAttributes(t *testing.T) {
	server := newTestServer(t)
	path := tempCookiesPath(t)

	jar, err := NewJar(path, server.URL)
	require.NoError(t, err)
	get(t, jar, server.URL+"/api/login")
	require.Equal(t, "scoped", get(t, jar, server.URL+"/api/echo"))
	require.Empty(t, get(t, jar, server.URL+"/echo"))

	jar, err = NewJar(path, server.URL)
	require.NoError(t, err)
	stored, ok := jar.stored["refresh_token;;/api"]
	require.True(t, ok)
	require.Equal(t, "/api", stored.Path)
	require.True(t, stored.HttpOnly)
	require.False(t, stored.Secure)
	require.Equal(t, "scoped", get(t, jar, server.URL+"/api/echo"))
	require.Empty(t, get(t, jar, server.URL+"/echo"))
}

func TestJarRestoresSecureCookies(t *testing.T) {
	server := newTestServer(t)
	path := tempCookiesPath(t)

	jar, err := NewJar(path, server.URL)
	require.NoError(t, err)
	get(t, jar, server.URL+"/secure/login")
	require.Empty(t, get(t, jar, server.URL+"/echo"))

	jar, err = NewJar(path, server.URL)
	require.NoError(t, err)
	require.True(t, jar.stored["refresh_token;;/"].Secure)
	require.Empty(t, get(t, jar, server.URL+"/echo"))

	serverURL, err := url.Parse(server.URL)
	require.NoError(t, err)
	httpsURL := &url.URL{Scheme: "https", Host: serverURL.Host, Path: "/"}
	cookies := jar.Cookies(httpsURL)
	require.Len(t, cookies, 1)
	require.Equal(t, "secret", cookies[0].Value)
}

func TestDefaultPath(t *testing.T) {
	testCases := map[string]string{
		"":                          "/",
		"/":                         "/",
		"/login":                    "/",
		"/TopCV/api/v1/auth/login":  "/TopCV/api/v1/auth",
		"/TopCV/api/v1/auth/login/": "/TopCV/api/v1/auth/login",
	}
	for requestPath, expected := range testCases {
		require.Equal(t, expected, defaultPath(requestPath), requestPath)
	}
}
