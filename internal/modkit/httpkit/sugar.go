package httpkit

import (
	"net/http"

	phttp "bluebird/internal/platform/net/http"
)

// Get mounts a handler that reads no body; its result goes in the envelope
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, phttp.Call(h))
}

// Post is Get for POST actions without a body
func Post(r Router, path string, h func(*http.Request) (any, error)) {
	r.Post(path, phttp.Call(h))
}

// PostJSON binds and validates a T from the body first
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.JSONHandler(h))
}

// PatchJSON is PostJSON under PATCH
func PatchJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Patch(path, phttp.JSONHandler(h))
}
