// Package http provides the login, logout and session endpoints
package http

import (
	stdhttp "net/http"
	"strings"
	"time"

	"bluebird/internal/adapters/supaauth"
	"bluebird/internal/modkit/httpkit"
	perr "bluebird/internal/platform/errors"
	pnet "bluebird/internal/platform/net"
	"bluebird/internal/services/auth/session"
)

// RefreshCookie holds the refresh token
const RefreshCookie = "sb-refresh-token"

// refresh tokens outlive access tokens by a wide margin
const refreshMaxAge = 30 * 24 * time.Hour

// LoginInput is the credential exchange body
type LoginInput struct {
	Email    string `json:"email" validate:"required,email" example:"ops@bluebird.com.br"`
	Password string `json:"password" validate:"required" example:"secret"`
}

// SessionView is what /me and /login answer
type SessionView struct {
	State     session.State `json:"state"`
	User      *pnet.User    `json:"user,omitempty"`
	ExpiresIn int           `json:"expires_in,omitempty"`
}

// Cookies configures the session cookies
type Cookies struct {
	Access string
	Secure bool
}

// Register mounts the auth endpoints
func Register(r httpkit.Router, res *session.Resolver, tokenOf func(*stdhttp.Request) string, c Cookies) {
	h := &handlers{res: res, tokenOf: tokenOf, cookies: c}

	httpkit.PostJSON[LoginInput](r, "/login", h.login)
	httpkit.Post(r, "/refresh", h.refresh)
	httpkit.Post(r, "/logout", h.logout)
	httpkit.Get(r, "/me", h.me)
}

type handlers struct {
	res     *session.Resolver
	tokenOf func(*stdhttp.Request) string
	cookies Cookies
}

// swagger:route POST /auth/login Auth authLogin
// @Summary Sign in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body LoginInput true "Credentials"
// @Success 200 {object} SessionView "signed in; session cookies set"
// @Failure 401 {object} httpkit.Envelope "bad credentials"
// @Router /auth/login [post]
func (h *handlers) login(r *stdhttp.Request, in LoginInput) (any, error) {
	if !h.res.Configured() {
		return nil, perr.Unavailablef("authentication is not configured")
	}
	s, err := h.res.SignIn(r.Context(), in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	return h.withSession(s), nil
}

// @Summary Exchange the refresh cookie for a new session
// @Tags Auth
// @Produce json
// @Success 200 {object} SessionView "refreshed"
// @Router /auth/refresh [post]
func (h *handlers) refresh(r *stdhttp.Request) (any, error) {
	c, err := r.Cookie(RefreshCookie)
	if err != nil || strings.TrimSpace(c.Value) == "" {
		return nil, perr.Unauthorizedf("no refresh token")
	}
	s, err := h.res.Refresh(r.Context(), c.Value)
	if err != nil {
		return nil, err
	}
	return h.withSession(s), nil
}

func (h *handlers) withSession(s supaauth.Session) httpkit.Response {
	u := pnet.User{ID: s.User.ID, Email: s.User.Email}
	resp := httpkit.OK(SessionView{State: session.StateAuthenticated, User: &u, ExpiresIn: s.ExpiresIn})
	resp.Header = stdhttp.Header{}
	resp.Header.Add("Set-Cookie", h.cookie(h.cookies.Access, s.AccessToken, time.Duration(s.ExpiresIn)*time.Second).String())
	if s.RefreshToken != "" {
		resp.Header.Add("Set-Cookie", h.cookie(RefreshCookie, s.RefreshToken, refreshMaxAge).String())
	}
	return resp
}

// swagger:route POST /auth/logout Auth authLogout
// @Summary Sign out and clear the session cookies
// @Tags Auth
// @Produce json
// @Success 200 {object} SessionView "signed out"
// @Router /auth/logout [post]
func (h *handlers) logout(r *stdhttp.Request) (any, error) {
	if token := h.tokenOf(r); token != "" {
		if err := h.res.SignOut(r.Context(), token); err != nil {
			return nil, err
		}
	}
	resp := httpkit.OK(SessionView{State: session.StateUnauthenticated})
	resp.Header = stdhttp.Header{}
	resp.Header.Add("Set-Cookie", h.cookie(h.cookies.Access, "", -1).String())
	resp.Header.Add("Set-Cookie", h.cookie(RefreshCookie, "", -1).String())
	return resp, nil
}

// swagger:route GET /auth/me Auth authMe
// @Summary Current user and session state
// @Tags Auth
// @Produce json
// @Success 200 {object} SessionView "ok"
// @Failure 503 {object} httpkit.Envelope "provider unavailable"
// @Router /auth/me [get]
func (h *handlers) me(r *stdhttp.Request) (any, error) {
	token := h.tokenOf(r)
	if token == "" || !h.res.Configured() {
		return SessionView{State: session.StateUnauthenticated}, nil
	}
	u, ok, err := h.res.CurrentUser(r.Context(), token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return SessionView{State: session.StateUnauthenticated}, nil
	}
	return SessionView{State: h.res.State(u.ID), User: &u}, nil
}

// cookie builds a session cookie; a negative maxAge deletes it
func (h *handlers) cookie(name, value string, maxAge time.Duration) *stdhttp.Cookie {
	c := &stdhttp.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: stdhttp.SameSiteLaxMode,
	}
	switch {
	case maxAge < 0:
		c.MaxAge = -1
	case maxAge > 0:
		c.MaxAge = int(maxAge.Seconds())
	}
	return c
}
