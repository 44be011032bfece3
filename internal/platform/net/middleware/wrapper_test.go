package middleware_test

import (
	"compress/flate"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	pnet "bluebird/internal/platform/net"
	"bluebird/internal/platform/net/middleware"
)

func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func TestWrappers_Baseline(t *testing.T) {
	var rid, path, remote string
	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid, path, remote = pnet.RequestID(r.Context()), r.URL.Path, r.RemoteAddr
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, strings.Repeat(`{"a":1}`, 600))
	}),
		middleware.RealIP(),
		middleware.RequestID(),
		middleware.NoCache(),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(time.Second),
		middleware.Throttle(2),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/", nil)
	req.Header.Set("X-Forwarded-For", "200.1.2.3")
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rid == "" || path != "/api/v1/documents" || remote != "200.1.2.3" {
		t.Fatalf("rid=%q path=%q remote=%q", rid, path, remote)
	}
	if rec.Header().Get("Content-Encoding") != "gzip" || rec.Header().Get("Cache-Control") == "" {
		t.Fatalf("headers %v", rec.Header())
	}
}

func TestHeartbeat(t *testing.T) {
	h := middleware.Heartbeat("/health")(http.NotFoundHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != 200 {
		t.Fatalf("code %d", rec.Code)
	}
}

func TestCORS_Preflight(t *testing.T) {
	h := middleware.CORS(middleware.CORSOptions{
		AllowedOrigins:   []string{"https://dash.bluebird.com.br"},
		AllowCredentials: true,
	})(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/occurrences/1", nil)
	req.Header.Set("Origin", "https://dash.bluebird.com.br")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "https://dash.bluebird.com.br" ||
		rec.Header().Get("Access-Control-Allow-Credentials") != "true" ||
		rec.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Fatalf("preflight headers %v", rec.Header())
	}
}
