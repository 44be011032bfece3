package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"bluebird/internal/platform/net/middleware"
)

// StackOptions tunes the shared middleware chain
type StackOptions struct {
	CORSOrigins []string
	Timeout     time.Duration
	SlowRequest time.Duration
	// Extra runs right after the access log, e.g. request metrics
	Extra []func(http.Handler) http.Handler
}

// CommonStack returns the baseline middleware slice for /api routes
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.SlowRequest <= 0 {
		o.SlowRequest = 500 * time.Millisecond
	}
	stack := []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.AccessLog(middleware.AccessLogOptions{Slow: o.SlowRequest, Quiet: []string{"/health", "/metrics"}}),
	}
	stack = append(stack, o.Extra...)
	return append(stack,
		middleware.CORS(middleware.CORSOptions{
			AllowedOrigins:   o.CORSOrigins,
			AllowCredentials: len(o.CORSOrigins) > 0,
		}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.StripSlashes(),
		middleware.Timeout(o.Timeout),
	)
}
