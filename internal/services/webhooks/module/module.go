// Package module wires the webhook relay. It mounts on the root router, outside
// the versioned API
package module

import (
	modkit "bluebird/internal/modkit"
	"bluebird/internal/modkit/httpkit"
	"bluebird/internal/services/webhooks/domain"
	hookhttp "bluebird/internal/services/webhooks/http"
	hooksvc "bluebird/internal/services/webhooks/service"
)

const Prefix = "/api/webhook"

type Module struct {
	b     modkit.Built
	relay domain.Relay
}

func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("webhooks"), modkit.WithPrefix(Prefix)}, opts...)...)
	return &Module{b: b, relay: hooksvc.New(deps.Emitter(), deps.Metrics)}
}

func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { hookhttp.Register(rr, m.relay) })
}

func (m *Module) Name() string { return m.b.Label() }
func (m *Module) Ports() any   { return m.relay }
