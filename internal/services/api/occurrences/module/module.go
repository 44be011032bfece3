// Package module wires occurrences into the API using modkit
package module

import (
	modkit "bluebird/internal/modkit"
	"bluebird/internal/modkit/httpkit"
	"bluebird/internal/modkit/repokit"
	occhttp "bluebird/internal/services/api/occurrences/http"
	occrepo "bluebird/internal/services/api/occurrences/repo"
	occsvc "bluebird/internal/services/api/occurrences/service"
)

type Module struct {
	b     modkit.Built
	deps  modkit.Deps
	svc   *occsvc.Svc
	views *occsvc.Views
}

// New constructs the occurrences module.
// CORE_API_OCCURRENCES_GUARD turns on the updated_at edit guard
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("occurrences"), modkit.WithPrefix("/occurrences")}, opts...)...)

	var binder repokit.Binder[occrepo.Repo] = occrepo.NewPG()
	if deps.Cfg.MayBool("OCCURRENCES_GUARD", false) {
		binder = occrepo.NewGuardedPG()
	}
	pageSize := deps.Cfg.MayInt("PAGE_SIZE", 0)

	svc := occsvc.New(deps.PG, binder,
		occsvc.WithEvents(deps.Emitter()),
		occsvc.WithLocation(deps.Loc()),
		occsvc.WithPageSize(pageSize),
	)
	return &Module{
		b:     b,
		deps:  deps,
		svc:   svc,
		views: occsvc.NewViews(svc, pageSize, deps.Loc(), deps.Metrics),
	}
}

func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { occhttp.Register(rr, m.svc, m.views, m.deps.Loc()) })
}

func (m *Module) Name() string { return m.b.Label() }
