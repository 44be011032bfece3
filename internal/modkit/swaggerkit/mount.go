// Package swaggerkit serves the OpenAPI document and Swagger UI under /api/docs
package swaggerkit

import (
	"net/http"

	phttp "bluebird/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Mount registers the docs routes when enabled. title overrides the document
// title when not empty
func Mount(r phttp.Router, enabled bool, title string) {
	if !enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDocJSON(title))
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}
