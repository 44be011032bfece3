// Package module wires documents into the API using modkit
package module

import (
	"context"

	"bluebird/internal/adapters/n8n"
	modkit "bluebird/internal/modkit"
	"bluebird/internal/modkit/httpkit"
	"bluebird/internal/platform/config"
	dochttp "bluebird/internal/services/api/documents/http"
	docrepo "bluebird/internal/services/api/documents/repo"
	docsvc "bluebird/internal/services/api/documents/service"
)

// Ports are the documents module ports
type Ports struct {
	Service *docsvc.Svc
}

type Module struct {
	b    modkit.Built
	deps modkit.Deps
	svc  *docsvc.Svc
}

// New constructs the documents module. The analysis engine client is read
// from the N8N_ prefix unless a Ports value carrying an Analyzer is injected
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("documents"), modkit.WithPrefix("/documents")}, opts...)...)

	engine, ok := b.Ports.(docsvc.Analyzer)
	if !ok || engine == nil {
		o := n8n.OptionsFromConf(config.New().Prefix("N8N_"))
		o.Location = deps.Loc()
		engine = n8n.NewClient(o)
	}

	svc := docsvc.New(deps.PG, docrepo.NewPG(), engine,
		docsvc.WithEvents(deps.Emitter()),
		docsvc.WithMetrics(deps.Metrics),
	)

	return &Module{b: b, deps: deps, svc: svc}
}

// Follow keeps the realtime feed current from the in-process bus until ctx ends
func (m *Module) Follow(ctx context.Context) {
	if m.deps.Bus == nil {
		return
	}
	ch, cancel := m.deps.Bus.Subscribe(64)
	go func() {
		defer cancel()
		m.svc.Follow(ctx, ch)
	}()
}

func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { dochttp.Register(rr, m.svc) })
}

func (m *Module) Name() string { return m.b.Label() }
func (m *Module) Ports() any   { return Ports{Service: m.svc} }
