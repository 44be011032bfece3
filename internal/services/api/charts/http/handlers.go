// Package http provides http transport for charts
package http

import (
	stdhttp "net/http"
	"strings"
	"time"

	"bluebird/internal/modkit/httpkit"
	"bluebird/internal/platform/net/http/bind"
	"bluebird/internal/services/api/charts/domain"
)

// Register mounts chart endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort, loc *time.Location) {
	h := &handlers{svc: s, loc: loc}

	httpkit.Get(r, "/series", h.series)
	httpkit.Get(r, "/metrics", h.metrics)
}

type handlers struct {
	svc domain.ServicePort
	loc *time.Location
}

func (h *handlers) window(r *stdhttp.Request) (domain.WindowInput, error) {
	in := domain.WindowInput{Preset: strings.TrimSpace(r.URL.Query().Get("preset"))}
	var err error
	if in.From, err = httpkit.QueryTime(r, "from", h.loc); err != nil {
		return in, err
	}
	if in.To, err = httpkit.QueryTime(r, "to", h.loc); err != nil {
		return in, err
	}
	return in, bind.Validate(in)
}

// swagger:route GET /charts/series Charts chartsSeries
// @Summary Chart series for a window
// @Description Daily totals, status and squad stacks, top clients and categories, recent rows
// @Tags Charts
// @Produce json
// @Param from query string false "Start date"
// @Param to query string false "End date"
// @Param preset query string false "today, yesterday, last7Days, last30Days or last90Days"
// @Success 200 {object} domain.SeriesResult "ok"
// @Failure 422 {object} httpkit.Envelope "bad window"
// @Router /charts/series [get]
func (h *handlers) series(r *stdhttp.Request) (any, error) {
	in, err := h.window(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Series(r.Context(), in)
}

// swagger:route GET /charts/metrics Charts chartsMetrics
// @Summary KPI cards for a window
// @Tags Charts
// @Produce json
// @Param from query string false "Start date"
// @Param to query string false "End date"
// @Param preset query string false "Preset name"
// @Success 200 {object} domain.MetricsResult "ok"
// @Router /charts/metrics [get]
func (h *handlers) metrics(r *stdhttp.Request) (any, error) {
	in, err := h.window(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Metrics(r.Context(), in)
}
