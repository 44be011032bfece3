// Package module wires charts into the API using modkit
package module

import (
	"strings"
	"time"

	modkit "bluebird/internal/modkit"
	"bluebird/internal/modkit/httpkit"
	chartshttp "bluebird/internal/services/api/charts/http"
	chartsrepo "bluebird/internal/services/api/charts/repo"
	chartssvc "bluebird/internal/services/api/charts/service"
)

type Module struct {
	b   modkit.Built
	loc *time.Location
	svc *chartssvc.Svc
}

// New constructs the charts module. CORE_API_CHARTS_BACKEND picks the row
// source; clickhouse needs an open connection and falls back to pg without one
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("charts"), modkit.WithPrefix("/charts")}, opts...)...)

	var src chartsrepo.RowSource
	backend := strings.ToLower(deps.Cfg.MayEnum("CHARTS_BACKEND", chartsrepo.BackendPG, chartsrepo.BackendPG, chartsrepo.BackendClickhouse))
	switch {
	case backend == chartsrepo.BackendClickhouse && deps.CH != nil:
		src = chartsrepo.NewClickhouse(deps.CH)
	default:
		if backend == chartsrepo.BackendClickhouse {
			deps.Log.Warn().Msg("charts backend clickhouse requested without a connection, using pg")
		}
		src = chartsrepo.NewPG(deps.PG)
	}

	svc := chartssvc.New(src,
		chartssvc.WithLocation(deps.Loc()),
		chartssvc.WithMaxRows(deps.Cfg.MayInt("CHARTS_MAX_ROWS", 0)),
	)

	return &Module{b: b, loc: deps.Loc(), svc: svc}
}

func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { chartshttp.Register(rr, m.svc, m.loc) })
}

func (m *Module) Name() string { return m.b.Label() }

// Ports exposes the chart service
func (m *Module) Ports() any { return m.svc }
