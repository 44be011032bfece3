package http

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bluebird/internal/adapters/events"
	"bluebird/internal/platform/bus"
	"bluebird/internal/platform/metrics"
	phttp "bluebird/internal/platform/net/http"
	"bluebird/internal/services/webhooks/domain"
	"bluebird/internal/services/webhooks/service"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type harness struct {
	h       stdhttp.Handler
	events  <-chan events.Event
	metrics *metrics.Metrics
}

func newHarness(t *testing.T) harness {
	t.Helper()
	b := bus.New[events.Event]()
	ch, cancel := b.Subscribe(8)
	t.Cleanup(cancel)

	m := metrics.New("test")
	relay := service.New(events.New(nil, events.WithBus(b)), m)

	r := chi.NewRouter()
	Register(phttp.AdaptChi(r), relay)
	return harness{h: r, events: ch, metrics: m}
}

func (h harness) do(method, path, body string) (*httptest.ResponseRecorder, domain.Reply) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.h.ServeHTTP(rec, req)
	var out domain.Reply
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestCompletion_OK(t *testing.T) {
	h := newHarness(t)
	rec, out := h.do("POST", "/completion", `{"id":7,"status":"completed"}`)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("code=%d body=%s", rec.Code, rec.Body.String())
	}
	if !out.Success || out.Message != domain.MsgCompletionOK || out.Status != "completed" {
		t.Fatalf("reply=%+v", out)
	}
	if id, ok := out.DocumentID.(float64); !ok || id != 7 {
		t.Fatalf("documentId=%#v", out.DocumentID)
	}

	select {
	case ev := <-h.events:
		ref, ok := ev.Data.(events.DocumentRef)
		if ev.Type != events.DocumentStatus || !ok || ref.ID != 7 || ref.Status != "completed" {
			t.Fatalf("event=%+v", ev)
		}
	default:
		t.Fatal("no event published")
	}
}

func TestCompletion_StringID(t *testing.T) {
	rec, out := newHarness(t).do("POST", "/completion", `{"id":"12","status":"error"}`)
	if rec.Code != stdhttp.StatusOK || out.Status != "error" {
		t.Fatalf("code=%d reply=%+v", rec.Code, out)
	}
}

func TestCompletion_Rejects(t *testing.T) {
	h := newHarness(t)
	cases := []struct {
		body string
		code int
		err  string
	}{
		{`{"status":"completed"}`, 400, domain.MsgMissingFields},
		{`{"id":7}`, 400, domain.MsgMissingFields},
		{`{"id":7,"status":"done"}`, 400, domain.MsgInvalidStatus},
		{`{"id":7,`, 500, domain.MsgInternal},
	}
	for _, c := range cases {
		rec, out := h.do("POST", "/completion", c.body)
		if rec.Code != c.code || out.Success || out.Error != c.err {
			t.Fatalf("%s: code=%d reply=%+v", c.body, rec.Code, out)
		}
	}
	want := `
# HELP bluebird_webhook_events_total Webhook deliveries by endpoint and outcome.
# TYPE bluebird_webhook_events_total counter
bluebird_webhook_events_total{endpoint="completion",outcome="invalid"} 3
`
	if err := testutil.GatherAndCompare(h.metrics.Registry(), strings.NewReader(want), "bluebird_webhook_events_total"); err != nil {
		t.Fatal(err)
	}
}

func TestSupabase(t *testing.T) {
	h := newHarness(t)

	rec, out := h.do("POST", "/supabase", `{"type":"INSERT","table":"documents","schema":"public","record":{"id":15,"document_name":"x"}}`)
	if rec.Code != 200 || out.Message != domain.MsgDocumentReceived || out.DocumentID.(float64) != 15 {
		t.Fatalf("code=%d reply=%+v", rec.Code, out)
	}
	ev := <-h.events
	if ref := ev.Data.(events.DocumentRef); ev.Type != events.DocumentInserted || ref.ID != 15 {
		t.Fatalf("event=%+v", ev)
	}

	rec, out = h.do("POST", "/supabase", `{"type":"UPDATE","table":"documents","record":{"id":15}}`)
	if rec.Code != 200 || !out.Success || out.Message != domain.MsgNotProcessed {
		t.Fatalf("code=%d reply=%+v", rec.Code, out)
	}

	rec, out = h.do("POST", "/supabase", `{"table":"documents"}`)
	if rec.Code != 400 || out.Success || out.Error == "" {
		t.Fatalf("code=%d reply=%+v", rec.Code, out)
	}
}

func TestSupabase_InsertWithoutRecordIsRejected(t *testing.T) {
	h := newHarness(t)
	rec, out := h.do("POST", "/supabase", `{"type":"INSERT","table":"documents"}`)
	if rec.Code != 400 || out.Success || out.Error == "" || out.DocumentID != nil {
		t.Fatalf("code=%d reply=%+v", rec.Code, out)
	}
	select {
	case ev := <-h.events:
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
}

func TestGet_MethodNotAllowed(t *testing.T) {
	h := newHarness(t)
	for path, msg := range map[string]string{
		"/completion": domain.MsgCompletionGet,
		"/supabase":   domain.MsgSupabaseGet,
	} {
		rec, _ := h.do("GET", path, "")
		var body map[string]string
		_ = json.Unmarshal(rec.Body.Bytes(), &body)
		if rec.Code != stdhttp.StatusMethodNotAllowed || body["message"] != msg {
			t.Fatalf("%s: code=%d body=%v", path, rec.Code, body)
		}
	}
}
