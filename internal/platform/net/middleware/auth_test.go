package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "bluebird/internal/platform/errors"
	pnet "bluebird/internal/platform/net"
	phttp "bluebird/internal/platform/net/http"
	"bluebird/internal/platform/net/middleware"
)

type fakeAuthPort struct {
	user pnet.User
	err  error
}

func (f fakeAuthPort) Parse(r *http.Request) (pnet.User, error) {
	return f.user, f.err
}

func TestAuth_NilPortPassesThrough(t *testing.T) {
	var nextCalled bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(200)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	middleware.Auth(nil, nil)(next).ServeHTTP(rr, req)

	if !nextCalled || rr.Code != 200 {
		t.Fatalf("expected pass-through, called=%v code=%d", nextCalled, rr.Code)
	}
}

func TestAuth_DefaultDenyWritesEnvelope(t *testing.T) {
	p := fakeAuthPort{err: perr.Unauthorizedf("no session")}

	var nextCalled bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { nextCalled = true })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/occurrences", nil)
	rr := httptest.NewRecorder()
	middleware.Auth(p, nil)(next).ServeHTTP(rr, req)

	if nextCalled {
		t.Fatal("did not expect next to be called on auth error")
	}
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
	var body phttp.Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(body.Error, "no session") {
		t.Fatalf("unexpected error text %q", body.Error)
	}
}

func TestAuth_CustomDenyAndSkip(t *testing.T) {
	p := fakeAuthPort{err: perr.Unauthorizedf("nope")}
	deny := func(w http.ResponseWriter, r *http.Request, err error) {
		http.Redirect(w, r, "/login", http.StatusTemporaryRedirect)
	}
	skip := func(r *http.Request) bool { return r.URL.Path == "/login" }

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(204) })
	h := middleware.Auth(p, deny, skip)(next)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/login", nil))
	if rr.Code != 204 {
		t.Fatalf("skipped path should pass, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if rr.Code != http.StatusTemporaryRedirect || rr.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect, got %d %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestAuth_SetsUserOnContext(t *testing.T) {
	p := fakeAuthPort{user: pnet.User{ID: "u1", Email: "u1@bluebird.app"}}

	var seen pnet.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = pnet.UserFrom(r.Context())
		w.WriteHeader(200)
	})

	rr := httptest.NewRecorder()
	middleware.Auth(p, nil)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != 200 {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	if seen.ID != "u1" || seen.Email != "u1@bluebird.app" {
		t.Fatalf("unexpected user %+v", seen)
	}
}

func TestAuth_UserAlreadyResolvedSkipsPort(t *testing.T) {
	p := fakeAuthPort{err: perr.Unauthorizedf("should not be consulted")}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/occurrences", nil)
	req = req.WithContext(pnet.WithUser(req.Context(), pnet.User{ID: "u9"}))
	rr := httptest.NewRecorder()
	middleware.Auth(p, nil)(next).ServeHTTP(rr, req)

	if rr.Code != 200 {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
}
