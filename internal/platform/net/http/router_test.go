package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bluebird/internal/platform/config"
	phttp "bluebird/internal/platform/net/http"
)

func TestChiRouter_VerbsGroupsRoutes(t *testing.T) {
	srv := phttp.NewServer(config.New())
	r := srv.Router()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Root", "1")
			next.ServeHTTP(w, req)
		})
	})

	write := func(code int) phttp.Handler {
		return func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(code) }
	}
	r.Route("/api/v1/documents", func(d phttp.Router) {
		d.Get("/", write(200))
		d.Post("/", write(201))
		d.Put("/{id}", write(202))
		d.Patch("/{id}", write(203))
		d.Delete("/{id}", write(204))
		d.Group(func(g phttp.Router) {
			g.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					w.Header().Set("X-Group", "1")
					next.ServeHTTP(w, req)
				})
			})
			g.Get("/feed", write(200))
		})
	})
	r.Handle("/raw", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "raw") }))

	cases := []struct {
		method, path string
		want         int
		group        bool
	}{
		{http.MethodGet, "/api/v1/documents/", 200, false},
		{http.MethodPost, "/api/v1/documents/", 201, false},
		{http.MethodPut, "/api/v1/documents/7", 202, false},
		{http.MethodPatch, "/api/v1/documents/7", 203, false},
		{http.MethodDelete, "/api/v1/documents/7", 204, false},
		{http.MethodGet, "/api/v1/documents/feed", 200, true},
		{http.MethodGet, "/raw", 200, false},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(c.method, c.path, nil))
		if rec.Code != c.want || rec.Header().Get("X-Root") != "1" || (rec.Header().Get("X-Group") == "1") != c.group {
			t.Fatalf("%s %s: code=%d headers=%v", c.method, c.path, rec.Code, rec.Header())
		}
	}
}

func TestNewServer_Addr(t *testing.T) {
	if got := phttp.NewServer(config.New().Prefix("BLUEBIRD_TEST_UNSET_")).Addr(); got != ":4000" {
		t.Fatalf("default addr %q", got)
	}
	t.Setenv("CORE_API_PORT", ":12345")
	if got := phttp.NewServer(config.New().Prefix("CORE_API_")).Addr(); got != ":12345" {
		t.Fatalf("env addr %q", got)
	}
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	t.Setenv("CORE_API_PORT", "127.0.0.1:0")
	srv := phttp.NewServer(config.New().Prefix("CORE_API_"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("run did not return")
	}
}

func TestServer_RunListenError(t *testing.T) {
	t.Setenv("CORE_API_PORT", "127.0.0.1:abc")
	if err := phttp.NewServer(config.New().Prefix("CORE_API_")).Run(context.Background()); err == nil {
		t.Fatal("expected listen error")
	}
}
