// Package http is the transport layer: the chi backed router, the server and
// the JSON envelope every endpoint answers with
package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "bluebird/internal/platform/errors"
	pnet "bluebird/internal/platform/net"
)

// Envelope wraps every JSON body. Data and Page are set on success, Code and
// Error on failure
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
	Page       *Page          `json:"page,omitempty"`
}

// Page is the pagination block of list responses
type Page struct {
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
	Cursor     string `json:"cursor,omitempty"`
}

// NewPage derives TotalPages, at least 1
func NewPage(total, page, size int, cursor string) *Page {
	pages := 1
	if size > 0 && total > size {
		pages = (total + size - 1) / size
	}
	return &Page{Total: total, Page: page, PageSize: size, TotalPages: pages, Cursor: cursor}
}

// JSON writes v without an envelope
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Response is what return-style handlers produce. An error Body decides the
// status itself; Header values are added before writing
type Response struct {
	Status int
	Body   any
	Page   *Page
	Header stdhttp.Header
}

func OK(data any) Response      { return Response{Status: stdhttp.StatusOK, Body: data} }
func Created(data any) Response { return Response{Status: stdhttp.StatusCreated, Body: data} }
func NoContent() Response       { return Response{Status: stdhttp.StatusNoContent} }
func Error(err error) Response  { return Response{Body: err} }

// List is a 200 with items and their page block
func List(items any, total, page, size int, cursor string) Response {
	return Response{Status: stdhttp.StatusOK, Body: items, Page: NewPage(total, page, size, cursor)}
}

// Handle adapts a return-style handler
func Handle(h func(r *stdhttp.Request) Response) Handler {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) { h(r).Write(w, r) }
}

// Write renders the response in the envelope
func (resp Response) Write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	if status == stdhttp.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	env := Envelope{RequestID: pnet.RequestID(r.Context())}
	if err, ok := resp.Body.(error); ok && err != nil {
		wire := perr.WireFrom(err)
		status = perr.HTTPStatus(err)
		env.Code, env.Error = wire.Code, wire.Message
	} else {
		env.Data, env.Page = resp.Body, resp.Page
	}
	env.StatusCode, env.Status = status, stdhttp.StatusText(status)
	JSON(w, status, env)
}

// WriteError renders err in the envelope, for middleware that has no handler
func WriteError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	Error(err).Write(w, r)
}
