package modkit

import (
	"net/http"

	phttp "bluebird/internal/platform/net/http"
	str "bluebird/internal/platform/strings"
)

// Built is the resolved option set a module constructor reads
type Built struct {
	Name      string
	Prefix    string
	Mw        []func(http.Handler) http.Handler
	Ports     any
	Subrouter func(phttp.Router) phttp.Router
	Register  func(phttp.Router)
}

// Build applies opts in order. Subrouter and Register are never nil
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	if b.Subrouter == nil {
		b.Subrouter = func(r phttp.Router) phttp.Router { return r }
	}
	if b.Register == nil {
		b.Register = func(phttp.Router) {}
	}
	return b
}

// Mount routes own under the module prefix behind its middleware and
// subrouter, followed by the Register hook
func (b Built) Mount(r phttp.Router, own func(phttp.Router)) {
	r.Route(str.MustPrefix(b.Prefix), func(rr phttp.Router) {
		if len(b.Mw) > 0 {
			rr.Use(b.Mw...)
		}
		rr = b.Subrouter(rr)
		own(rr)
		b.Register(rr)
	})
}

// Label is the module name, required
func (b Built) Label() string { return str.MustString(b.Name, "module name") }
