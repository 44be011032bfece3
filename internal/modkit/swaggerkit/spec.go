package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"
)

// the UI bundled with http-swagger renders 3.0 documents only
const uiVersion = "3.0.3"

var errorSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"status_code": map[string]any{"type": "integer"},
		"status":      map[string]any{"type": "string"},
		"code":        map[string]any{"type": "integer"},
		"error":       map[string]any{"type": "string"},
		"field":       map[string]any{"type": "string"},
		"request_id":  map[string]any{"type": "string"},
	},
	"required": []any{"status_code", "status"},
}

// shared error responses every operation may return
var defaultResponses = map[string]string{
	"400": "Bad Request",
	"401": "Session missing or expired",
	"500": "Internal Server Error",
}

func serveDocJSON(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}
		normalize(spec, "/api/v1", title)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// normalize pins the document to a UI readable version, adds the base server
// and attaches the error envelope to every operation that lacks one
func normalize(spec map[string]any, base, title string) {
	delete(spec, "swagger")
	if v, _ := spec["openapi"].(string); !strings.HasPrefix(v, "3.0") {
		spec["openapi"] = uiVersion
	}
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": base}}
	}
	if info, ok := spec["info"].(map[string]any); ok && title != "" {
		info["title"] = title
	}

	schemas := child(child(spec, "components"), "schemas")
	if _, ok := schemas["ErrorResponse"]; !ok {
		schemas["ErrorResponse"] = errorSchema
	}

	paths, _ := spec["paths"].(map[string]any)
	for _, p := range paths {
		ops, _ := p.(map[string]any)
		for _, o := range ops {
			op, ok := o.(map[string]any)
			if !ok {
				continue
			}
			responses := child(op, "responses")
			for code, desc := range defaultResponses {
				if _, ok := responses[code]; !ok {
					responses[code] = errorResponse(desc)
				}
			}
		}
	}
}

func errorResponse(desc string) map[string]any {
	return map[string]any{
		"description": desc,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
			},
		},
	}
}

// child returns m[key] as an object, creating it when absent
func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}
