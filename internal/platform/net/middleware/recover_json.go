package middleware

import (
	"net/http"
	"runtime/debug"

	perr "bluebird/internal/platform/errors"
	"bluebird/internal/platform/logger"
	pnet "bluebird/internal/platform/net"
	phttp "bluebird/internal/platform/net/http"
)

// RecoverJSON turns a panic into a 500 envelope and logs the stack. The
// panic value stays in the log
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			rid := pnet.RequestID(r.Context())
			logger.C(r.Context()).Error().
				Str("request_id", rid).
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")
			if rid != "" {
				w.Header().Set("X-Request-ID", rid)
			}
			phttp.WriteError(w, r, perr.PanicErrf("panic recovered"))
		}()
		next.ServeHTTP(w, r)
	})
}
