package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bluebird/internal/platform/config"
	phttp "bluebird/internal/platform/net/http"
)

func TestMountProfiler(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		srv := phttp.NewServer(config.New())
		phttp.MountProfiler(srv.Router(), "/debug", enabled)

		for _, path := range []string{"/debug/pprof/", "/debug/pprof/cmdline"} {
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			want := http.StatusNotFound
			if enabled {
				want = http.StatusOK
			}
			if rec.Code != want {
				t.Fatalf("enabled=%v %s: %d", enabled, path, rec.Code)
			}
		}
	}
}
