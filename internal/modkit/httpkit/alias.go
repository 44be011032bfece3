// Package httpkit is what modules mount routes with, so they never import
// the platform http package directly
package httpkit

import (
	"net/http"

	phttp "bluebird/internal/platform/net/http"
)

type (
	Envelope = phttp.Envelope
	Page     = phttp.Page
	Response = phttp.Response
	Handler  = phttp.Handler
	Router   = phttp.Router
)

func OK(data any) Response      { return phttp.OK(data) }
func Created(data any) Response { return phttp.Created(data) }
func Error(err error) Response  { return phttp.Error(err) }

// List is a 200 with a page block
func List(items any, total, page, size int, cursor string) Response {
	return phttp.List(items, total, page, size, cursor)
}

// WriteJSON writes v as is, for endpoints that own their body shape
func WriteJSON(w http.ResponseWriter, status int, v any) { phttp.JSON(w, status, v) }
