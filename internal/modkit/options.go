package modkit

import (
	"net/http"

	phttp "bluebird/internal/platform/net/http"
)

// Option adjusts how a module is built
type Option func(*Built)

func WithName(name string) Option { return func(b *Built) { b.Name = name } }

func WithPrefix(prefix string) Option { return func(b *Built) { b.Prefix = prefix } }

// WithMiddlewares appends middleware run in front of the module routes only
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// WithPorts hands a module something another module exports; the receiving
// module asserts the concrete type
func WithPorts[T any](p T) Option { return func(b *Built) { b.Ports = p } }

// WithSubrouter wraps the module router, e.g. to group it under extra middleware
func WithSubrouter(fn func(phttp.Router) phttp.Router) Option {
	return func(b *Built) { b.Subrouter = fn }
}

// WithRegister adds routes after the module's own
func WithRegister(fn func(phttp.Router)) Option { return func(b *Built) { b.Register = fn } }
