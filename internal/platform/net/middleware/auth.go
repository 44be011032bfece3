package middleware

import (
	"net/http"

	pnet "bluebird/internal/platform/net"
	phttp "bluebird/internal/platform/net/http"
)

// AuthPort resolves the signed-in user for a request
type AuthPort interface {
	Parse(r *http.Request) (pnet.User, error)
}

// DenyFunc writes the response for a request that failed authentication
type DenyFunc func(w http.ResponseWriter, r *http.Request, err error)

// Skipper reports whether a request bypasses authentication
type Skipper func(r *http.Request) bool

// Auth resolves the user through p and stores it on the request context.
// A nil port passes everything through, as does a request that already carries a user.
func Auth(p AuthPort, deny DenyFunc, skip ...Skipper) func(http.Handler) http.Handler {
	if deny == nil {
		deny = DenyJSON
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := pnet.UserFrom(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}
			for _, s := range skip {
				if s != nil && s(r) {
					next.ServeHTTP(w, r)
					return
				}
			}
			u, err := p.Parse(r)
			if err != nil {
				deny(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(pnet.WithUser(r.Context(), u)))
		})
	}
}

// DenyJSON writes the error envelope
func DenyJSON(w http.ResponseWriter, r *http.Request, err error) { phttp.WriteError(w, r, err) }
