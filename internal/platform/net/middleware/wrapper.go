// Package middleware adapts chi and go-chi/cors middleware so modules never
// import chi types, and adds the session and access log middleware
package middleware

import (
	"net/http"
	"time"

	pstrings "bluebird/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

type mw = func(http.Handler) http.Handler

func RequestID() mw              { return chimw.RequestID }
func RealIP() mw                 { return chimw.RealIP }
func NoCache() mw                { return chimw.NoCache }
func StripSlashes() mw           { return chimw.StripSlashes }
func Heartbeat(path string) mw   { return chimw.Heartbeat(path) }
func Timeout(d time.Duration) mw { return chimw.Timeout(d) }
func Throttle(limit int) mw      { return chimw.Throttle(limit) }
func Compress(level int) mw      { return chimw.Compress(level) }

// CORSOptions is the part of go-chi/cors the API configures
type CORSOptions struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

var (
	defaultMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	defaultHeaders = []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"}
)

// CORS fills in methods and headers the dashboard sends when left empty
func CORS(o CORSOptions) mw {
	return chicors.Handler(chicors.Options{
		AllowedOrigins:   o.AllowedOrigins,
		AllowedMethods:   pstrings.IfEmpty(o.AllowedMethods, defaultMethods),
		AllowedHeaders:   pstrings.IfEmpty(o.AllowedHeaders, defaultHeaders),
		ExposedHeaders:   o.ExposedHeaders,
		AllowCredentials: o.AllowCredentials,
		MaxAge:           o.MaxAge,
	})
}
