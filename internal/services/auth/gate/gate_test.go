package gate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	perr "bluebird/internal/platform/errors"
	pnet "bluebird/internal/platform/net"
)

type fakeResolver struct {
	configured bool
	users      map[string]pnet.User
	err        error
	seen       []string
}

func (f *fakeResolver) Configured() bool { return f.configured }

func (f *fakeResolver) CurrentUser(_ context.Context, token string) (pnet.User, bool, error) {
	f.seen = append(f.seen, token)
	if f.err != nil {
		return pnet.User{}, false, f.err
	}
	u, ok := f.users[token]
	return u, ok, nil
}

func serve(g *Gate, req *http.Request) (*httptest.ResponseRecorder, *pnet.User) {
	var got *pnet.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := pnet.UserFrom(r.Context()); ok {
			got = &u
		}
		w.WriteHeader(http.StatusNoContent)
	})
	rec := httptest.NewRecorder()
	g.Middleware()(next).ServeHTTP(rec, req)
	return rec, got
}

func newGate() (*Gate, *fakeResolver) {
	f := &fakeResolver{configured: true, users: map[string]pnet.User{
		"good": {ID: "u1", Email: "ops@bluebird.com.br"},
	}}
	return New(f, Options{}), f
}

func TestGate_SkipsPublicAndStatic(t *testing.T) {
	g, f := newGate()
	for _, p := range []string{"/login", "/auth/callback", "/_next/static/app.js", "/favicon.ico", "/img/logo.svg", "/api/webhook/supabase"} {
		rec, _ := serve(g, httptest.NewRequest(http.MethodGet, p, nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("%s: code=%d", p, rec.Code)
		}
	}
	if len(f.seen) != 0 {
		t.Fatalf("resolver consulted for public paths: %v", f.seen)
	}
}

func TestGate_ImageExtensionDoesNotExemptAPI(t *testing.T) {
	g, f := newGate()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/7/preview.png", nil)
	req.Header.Set("Authorization", "Bearer stale")
	rec, _ := serve(g, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code=%d", rec.Code)
	}
	if len(f.seen) != 1 || f.seen[0] != "stale" {
		t.Fatalf("resolver calls = %v", f.seen)
	}
}

func TestGate_RedirectsPagesToLogin(t *testing.T) {
	g, _ := newGate()
	rec, _ := serve(g, httptest.NewRequest(http.MethodGet, "/occurrences", nil))
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("code=%d", rec.Code)
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatal(err)
	}
	if loc.Path != LoginPath || loc.Query().Get("redirect") != "/occurrences" {
		t.Fatalf("location=%s", loc)
	}
}

func TestGate_APIGets401Envelope(t *testing.T) {
	g, _ := newGate()
	rec, _ := serve(g, httptest.NewRequest(http.MethodGet, "/api/v1/occurrences", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code=%d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body=%s", rec.Body.String())
	}
	if body["error"] == nil {
		t.Fatalf("body=%v", body)
	}
}

func TestGate_CookieBeforeBearer(t *testing.T) {
	g, f := newGate()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/charts/series", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookie, Value: "good"})
	req.Header.Set("Authorization", "Bearer other")

	rec, u := serve(g, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("code=%d", rec.Code)
	}
	if u == nil || u.ID != "u1" {
		t.Fatalf("user=%+v", u)
	}
	if len(f.seen) != 1 || f.seen[0] != "good" {
		t.Fatalf("seen=%v", f.seen)
	}
}

func TestGate_BearerFallback(t *testing.T) {
	g, _ := newGate()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/charts/series", nil)
	req.Header.Set("Authorization", "Bearer good")
	if rec, u := serve(g, req); rec.Code != http.StatusNoContent || u == nil {
		t.Fatalf("code=%d user=%v", rec.Code, u)
	}
}

func TestGate_Parse(t *testing.T) {
	withCookie := func(v string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/x", nil)
		if v != "" {
			req.AddCookie(&http.Cookie{Name: DefaultCookie, Value: v})
		}
		return req
	}

	if _, err := New(nil, Options{}).Parse(withCookie("good")); !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("nil resolver: %v", err)
	}
	if _, err := New(&fakeResolver{}, Options{}).Parse(withCookie("good")); !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("unconfigured: %v", err)
	}

	g, f := newGate()
	if _, err := g.Parse(withCookie("")); !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("missing: %v", err)
	}
	if _, err := g.Parse(withCookie("stale")); !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("invalid: %v", err)
	}
	f.err = perr.Unavailablef("auth down")
	if _, err := g.Parse(withCookie("good")); !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("provider error: %v", err)
	}
}

func TestGate_CustomCookieAndPublic(t *testing.T) {
	f := &fakeResolver{configured: true, users: map[string]pnet.User{"t": {ID: "u2"}}}
	g := New(f, Options{Cookie: "bb", Public: []string{"/health"}})

	if rec, _ := serve(g, httptest.NewRequest(http.MethodGet, "/health", nil)); rec.Code != http.StatusNoContent {
		t.Fatalf("public: code=%d", rec.Code)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/x", nil)
	req.AddCookie(&http.Cookie{Name: "bb", Value: "t"})
	if rec, u := serve(g, req); rec.Code != http.StatusNoContent || u.ID != "u2" {
		t.Fatalf("code=%d user=%v", rec.Code, u)
	}
}

func TestHelpers(t *testing.T) {
	if !IsAPI("/api/v1/documents") || IsAPI("/apiary") {
		t.Fatal("IsAPI")
	}
	if !IsStatic("/robots.txt") || !IsStatic("/a/b.PNG") || IsStatic("/documents") || IsStatic("/api/v1/x.svg") {
		t.Fatal("IsStatic")
	}
	if got := LoginURL("/a?b=1"); got != "/login?redirect=%2Fa%3Fb%3D1" {
		t.Fatalf("LoginURL=%q", got)
	}
}
