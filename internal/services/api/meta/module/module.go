// Package module wires meta endpoints into the API
package module

import (
	"time"

	modkit "bluebird/internal/modkit"
	"bluebird/internal/modkit/httpkit"
	metahttp "bluebird/internal/services/api/meta/http"
)

type Module struct {
	b       modkit.Built
	checks  []metahttp.Check
	started time.Time
}

// New constructs the meta module. Readiness checks come in as a
// []metahttp.Check port; without one pg and clickhouse are pinged
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	checks, ok := b.Ports.([]metahttp.Check)
	if !ok {
		checks = []metahttp.Check{
			metahttp.PingCheck("pg", deps.PG, false),
			metahttp.PingCheck("ch", deps.CH, true),
		}
	}
	return &Module{b: b, checks: checks, started: time.Now()}
}

func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) {
		metahttp.Register(rr, metahttp.Deps{StartedAt: m.started, Checks: m.checks})
	})
}

func (m *Module) Name() string { return m.b.Label() }
func (m *Module) Ports() any   { return nil }
