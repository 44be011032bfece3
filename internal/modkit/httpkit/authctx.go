package httpkit

import (
	"net/http"
	"strings"

	perrs "bluebird/internal/platform/errors"
	pnet "bluebird/internal/platform/net"
)

// User is the signed-in user the session gate put on the context
func User(r *http.Request) (pnet.User, error) {
	u, ok := pnet.UserFrom(r.Context())
	if !ok || u.ID == "" {
		return pnet.User{}, perrs.Unauthorizedf("no active session")
	}
	return u, nil
}

// AccessToken reads a bearer Authorization header, falling back to cookie
// when no header is sent
func AccessToken(r *http.Request, cookie string) (string, error) {
	missing := perrs.Unauthorizedf("missing access token")
	if h := strings.TrimSpace(r.Header.Get("Authorization")); h != "" {
		scheme, tok, _ := strings.Cut(h, " ")
		if !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(tok) == "" {
			return "", missing
		}
		return strings.TrimSpace(tok), nil
	}
	if cookie == "" {
		return "", missing
	}
	if c, err := r.Cookie(cookie); err == nil && strings.TrimSpace(c.Value) != "" {
		return strings.TrimSpace(c.Value), nil
	}
	return "", missing
}
