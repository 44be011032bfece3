package middleware

import (
	"net/http"
	"time"

	"bluebird/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// AccessLogOptions for AccessLog. Requests slower than Slow log at
// warn; Quiet paths (heartbeats, scrapes) log at debug
type AccessLogOptions struct {
	Slow  time.Duration
	Quiet []string
}

// AccessLog writes one line per request after it completes. Mount it after
// RequestID so the line carries request_id
func AccessLog(opt AccessLogOptions) func(http.Handler) http.Handler {
	quiet := make(map[string]bool, len(opt.Quiet))
	for _, p := range opt.Quiet {
		quiet[p] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			elapsed := time.Since(start)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			lvl := zerolog.InfoLevel
			switch {
			case status >= 500:
				lvl = zerolog.ErrorLevel
			case opt.Slow > 0 && elapsed >= opt.Slow:
				lvl = zerolog.WarnLevel
			case quiet[r.URL.Path]:
				lvl = zerolog.DebugLevel
			}
			logger.C(r.Context()).WithLevel(lvl).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", elapsed).
				Msg("request")
		})
	}
}
