// Package gate is the session gate in front of the dashboard API
package gate

import (
	"context"
	"net/http"
	"net/url"
	"path"
	"strings"

	"bluebird/internal/modkit/httpkit"
	perr "bluebird/internal/platform/errors"
	"bluebird/internal/platform/logger"
	"bluebird/internal/platform/metrics"
	pnet "bluebird/internal/platform/net"
	"bluebird/internal/platform/net/middleware"
)

// DefaultCookie holds the access token
const DefaultCookie = "sb-access-token"

// LoginPath is where unauthenticated navigations are sent
const LoginPath = "/login"

// Defaults for Options
var (
	DefaultPublic = []string{"/login", "/auth", "/api/v1/auth", "/api/v1/meta", "/api/docs", "/metrics", "/health"}

	DefaultStaticPrefixes = []string{"/_next", "/api/webhook"}
	DefaultStaticFiles    = []string{"/favicon.ico", "/robots.txt", "/manifest.json", "/sw.js"}
	DefaultStaticExts     = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg", ".ico"}
)

// Resolver is the session lookup the gate needs
type Resolver interface {
	Configured() bool
	CurrentUser(ctx context.Context, token string) (pnet.User, bool, error)
}

// Options tune the gate
type Options struct {
	Cookie  string
	Public  []string
	Metrics *metrics.Metrics
}

// Gate decides whether a request may reach the handlers
type Gate struct {
	res     Resolver
	cookie  string
	public  []string
	metrics *metrics.Metrics
}

// New builds a gate; a nil resolver counts as missing configuration
func New(res Resolver, o Options) *Gate {
	if o.Cookie == "" {
		o.Cookie = DefaultCookie
	}
	if o.Public == nil {
		o.Public = DefaultPublic
	}
	return &Gate{res: res, cookie: o.Cookie, public: o.Public, metrics: o.Metrics}
}

// Middleware returns the http middleware
func (g *Gate) Middleware() func(http.Handler) http.Handler {
	return middleware.Auth(g, g.deny, g.skip)
}

// Token reads the cookie first, then the bearer header
func (g *Gate) Token(r *http.Request) string {
	if c, err := r.Cookie(g.cookie); err == nil && strings.TrimSpace(c.Value) != "" {
		return strings.TrimSpace(c.Value)
	}
	t, _ := httpkit.AccessToken(r, "")
	return t
}

// Parse implements middleware.AuthPort
func (g *Gate) Parse(r *http.Request) (pnet.User, error) {
	if g.res == nil || !g.res.Configured() {
		g.metrics.SessionCheck("unconfigured")
		return pnet.User{}, perr.Unauthorizedf("authentication is not configured")
	}
	token := g.Token(r)
	if token == "" {
		g.metrics.SessionCheck("missing")
		return pnet.User{}, perr.Unauthorizedf("no active session")
	}
	u, ok, err := g.res.CurrentUser(r.Context(), token)
	switch {
	case err != nil:
		g.metrics.SessionCheck("error")
		logger.C(r.Context()).Warn().Err(err).Msg("session check failed")
		return pnet.User{}, perr.Wrap(err, perr.ErrorCodeUnauthorized, "session check failed")
	case !ok:
		g.metrics.SessionCheck("invalid")
		return pnet.User{}, perr.Unauthorizedf("session expired")
	}
	g.metrics.SessionCheck("ok")
	return u, nil
}

func (g *Gate) skip(r *http.Request) bool {
	p := r.URL.Path
	return IsStatic(p) || hasAnyPrefix(p, g.public)
}

func (g *Gate) deny(w http.ResponseWriter, r *http.Request, err error) {
	if IsAPI(r.URL.Path) {
		middleware.DenyJSON(w, r, err)
		return
	}
	http.Redirect(w, r, LoginURL(r.URL.Path), http.StatusTemporaryRedirect)
}

// LoginURL is the login page carrying the original path
func LoginURL(from string) string {
	return LoginPath + "?" + url.Values{"redirect": {from}}.Encode()
}

// IsAPI reports whether p is an API call rather than a page navigation
func IsAPI(p string) bool { return strings.HasPrefix(p, "/api/") }

// IsStatic reports whether p is an asset or webhook that skips the gate.
// Image extensions never exempt an API path
func IsStatic(p string) bool {
	if hasAnyPrefix(p, DefaultStaticPrefixes) {
		return true
	}
	for _, f := range DefaultStaticFiles {
		if p == f {
			return true
		}
	}
	if IsAPI(p) {
		return false
	}
	ext := strings.ToLower(path.Ext(p))
	for _, e := range DefaultStaticExts {
		if ext == e {
			return true
		}
	}
	return false
}

func hasAnyPrefix(p string, prefixes []string) bool {
	for _, pre := range prefixes {
		if strings.HasPrefix(p, pre) {
			return true
		}
	}
	return false
}
