package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalize(t *testing.T) {
	spec := map[string]any{
		"openapi": "3.1.0",
		"info":    map[string]any{"title": "API"},
		"paths": map[string]any{
			"/occurrences": map[string]any{
				"get": map[string]any{"responses": map[string]any{
					"401": map[string]any{"description": "custom"},
				}},
				"parameters": []any{},
			},
		},
	}
	normalize(spec, "/api/v1", "Blue Bird")

	if spec["openapi"] != uiVersion {
		t.Fatalf("version %v", spec["openapi"])
	}
	if spec["info"].(map[string]any)["title"] != "Blue Bird" {
		t.Fatal("title not applied")
	}
	servers := spec["servers"].([]any)
	if servers[0].(map[string]any)["url"] != "/api/v1" {
		t.Fatalf("servers %v", servers)
	}
	if _, ok := spec["components"].(map[string]any)["schemas"].(map[string]any)["ErrorResponse"]; !ok {
		t.Fatal("error schema missing")
	}
	res := spec["paths"].(map[string]any)["/occurrences"].(map[string]any)["get"].(map[string]any)["responses"].(map[string]any)
	if res["401"].(map[string]any)["description"] != "custom" {
		t.Fatal("existing response overwritten")
	}
	for _, code := range []string{"400", "500"} {
		if _, ok := res[code]; !ok {
			t.Fatalf("%s not added", code)
		}
	}
}

func TestNormalize_Swagger2(t *testing.T) {
	spec := map[string]any{"swagger": "2.0", "servers": []any{}}
	normalize(spec, "/api/v1", "")
	if _, ok := spec["swagger"]; ok || spec["openapi"] != uiVersion {
		t.Fatalf("%v", spec)
	}
	if len(spec["servers"].([]any)) != 0 {
		t.Fatal("servers replaced")
	}
}

func TestServeDocJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	serveDocJSON("")(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rec.Code != 200 || rec.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("%d %v", rec.Code, rec.Header())
	}
	var spec map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &spec); err != nil || spec["openapi"] != uiVersion {
		t.Fatalf("%v %v", err, spec)
	}
}
