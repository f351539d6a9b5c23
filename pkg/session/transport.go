package session

import (
	"net/http"
	"time"

	"github.com/washlane/washlane/pkg/cookie"
)

// Transport moves session tokens between HTTP requests and responses.
type Transport interface {
	GetToken(r *http.Request) (string, error)
	SetToken(w http.ResponseWriter, token string, ttl time.Duration) error
	ClearToken(w http.ResponseWriter) error
}

// CookieTransport carries the token in a single opaque signed cookie. The
// cookie contract: the value stays valid and reattachable across a schema
// switch within one request/response cycle, because nothing in it depends
// on tenant state.
type CookieTransport struct {
	cookieMgr     *cookie.Manager
	cookieName    string
	secureCookies bool
}

// NewCookieTransport creates a cookie-based transport.
func NewCookieTransport(cookieMgr *cookie.Manager, cookieName string, secureCookies bool) *CookieTransport {
	return &CookieTransport{
		cookieMgr:     cookieMgr,
		cookieName:    cookieName,
		secureCookies: secureCookies,
	}
}

func (t *CookieTransport) GetToken(r *http.Request) (string, error) {
	token, err := t.cookieMgr.GetSigned(r, t.cookieName)
	if err != nil {
		return "", ErrSessionNotFound
	}
	return token, nil
}

func (t *CookieTransport) SetToken(w http.ResponseWriter, token string, ttl time.Duration) error {
	opts := []cookie.Option{
		cookie.WithMaxAge(int(ttl.Seconds())),
		cookie.WithPath("/"),
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteLaxMode),
	}
	if t.secureCookies {
		opts = append(opts, cookie.WithSecure(true))
	}
	return t.cookieMgr.SetSigned(w, t.cookieName, token, opts...)
}

func (t *CookieTransport) ClearToken(w http.ResponseWriter) error {
	t.cookieMgr.Delete(w, t.cookieName)
	return nil
}
