// Package http provides http transport for occurrences
package http

import (
	stdhttp "net/http"
	"time"

	"bluebird/internal/modkit/httpkit"
	"bluebird/internal/services/api/occurrences/domain"
)

// Register mounts the occurrence endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort, v domain.ViewPort, loc *time.Location) {
	h := &handlers{svc: s, views: v, loc: loc}

	httpkit.Get(r, "/", h.list)
	httpkit.PostJSON[domain.SnapshotInput](r, "/snapshot", h.snapshot)

	// per-user listing state
	if v != nil {
		httpkit.Get(r, "/view", h.view)
		httpkit.Post(r, "/view/refresh", h.refresh)
		httpkit.PostJSON[domain.FilterInput](r, "/view/filter", h.setFilter)
		httpkit.Post(r, "/view/filter/clear", h.clearFilters)
		httpkit.PostJSON[domain.SortInput](r, "/view/sort", h.toggleSort)
		httpkit.PostJSON[domain.PageInput](r, "/view/page", h.setPage)
		httpkit.PostJSON[domain.RangeInput](r, "/view/range", h.setRange)
		httpkit.PostJSON[domain.ResizeInput](r, "/view/resize/start", h.resizeStart)
		httpkit.PostJSON[domain.ResizeInput](r, "/view/resize/move", h.resizeMove)
		httpkit.Post(r, "/view/resize/end", h.resizeEnd)
	}

	httpkit.Get(r, "/{id}", h.get)
	httpkit.PatchJSON[domain.StatusInput](r, "/{id}/status", h.updateStatus)
	httpkit.PatchJSON[domain.TextInput](r, "/{id}/description", h.updateDescription)
	httpkit.PatchJSON[domain.TextInput](r, "/{id}/resolution", h.updateResolution)
}

type handlers struct {
	svc   domain.ServicePort
	views domain.ViewPort
	loc   *time.Location
}

// swagger:route GET /occurrences Occurrences occurrencesList
// @Summary List occurrences
// @Description One page of occurrences with filters, sort and an optional date window
// @Tags Occurrences
// @Produce json
// @Param search query string false "Search term"
// @Param status query string false "Status or all"
// @Param category query string false "Category or all"
// @Param squad query string false "Squad or all"
// @Param page query int false "Page, 1-based"
// @Param page_size query int false "Page size"
// @Param sort_field query string false "Sort field"
// @Param sort_direction query string false "asc or desc"
// @Param from query string false "Start date"
// @Param to query string false "End date"
// @Success 200 {array} occurrence.Occurrence "ok"
// @Failure 422 {object} httpkit.Envelope "invalid sort or page"
// @Router /occurrences [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	in, err := h.listInput(r)
	if err != nil {
		return nil, err
	}
	res, err := h.svc.List(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.List(res.Items, res.Total, res.Page, res.PageSize, ""), nil
}

func (h *handlers) listInput(r *stdhttp.Request) (domain.ListInput, error) {
	q := r.URL.Query()
	in := domain.ListInput{
		Search:        q.Get("search"),
		Status:        q.Get("status"),
		Category:      q.Get("category"),
		Squad:         q.Get("squad"),
		SortField:     q.Get("sort_field"),
		SortDirection: q.Get("sort_direction"),
	}
	var err error
	if in.Page, err = httpkit.QueryInt(r, "page", 1); err != nil {
		return in, err
	}
	if in.PageSize, err = httpkit.QueryInt(r, "page_size", 0); err != nil {
		return in, err
	}
	if in.From, err = httpkit.QueryTime(r, "from", h.loc); err != nil {
		return in, err
	}
	if in.To, err = httpkit.QueryTime(r, "to", h.loc); err != nil {
		return in, err
	}
	return in, nil
}

// swagger:route GET /occurrences/{id} Occurrences occurrencesGet
// @Summary Get one occurrence
// @Tags Occurrences
// @Produce json
// @Param id path int true "Occurrence id"
// @Success 200 {object} occurrence.Occurrence "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /occurrences/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	id, err := httpkit.ParamInt64(r, "id")
	if err != nil {
		return nil, err
	}
	return h.svc.Get(r.Context(), id)
}

// swagger:route PATCH /occurrences/{id}/status Occurrences occurrencesStatus
// @Summary Change the status of an occurrence
// @Tags Occurrences
// @Accept json
// @Produce json
// @Param id path int true "Occurrence id"
// @Param payload body domain.StatusInput true "New status"
// @Success 200 {object} occurrence.Occurrence "ok"
// @Failure 409 {object} httpkit.Envelope "modified concurrently"
// @Router /occurrences/{id}/status [patch]
func (h *handlers) updateStatus(r *stdhttp.Request, in domain.StatusInput) (any, error) {
	id, err := httpkit.ParamInt64(r, "id")
	if err != nil {
		return nil, err
	}
	return h.svc.UpdateStatus(r.Context(), id, in)
}

// swagger:route PATCH /occurrences/{id}/description Occurrences occurrencesDescription
// @Summary Replace the description of an occurrence
// @Tags Occurrences
// @Accept json
// @Produce json
// @Param id path int true "Occurrence id"
// @Param payload body domain.TextInput true "Text"
// @Success 200 {object} occurrence.Occurrence "ok"
// @Router /occurrences/{id}/description [patch]
func (h *handlers) updateDescription(r *stdhttp.Request, in domain.TextInput) (any, error) {
	id, err := httpkit.ParamInt64(r, "id")
	if err != nil {
		return nil, err
	}
	return h.svc.UpdateDescription(r.Context(), id, in)
}

// swagger:route PATCH /occurrences/{id}/resolution Occurrences occurrencesResolution
// @Summary Replace the resolution of an occurrence
// @Tags Occurrences
// @Accept json
// @Produce json
// @Param id path int true "Occurrence id"
// @Param payload body domain.TextInput true "Text"
// @Success 200 {object} occurrence.Occurrence "ok"
// @Router /occurrences/{id}/resolution [patch]
func (h *handlers) updateResolution(r *stdhttp.Request, in domain.TextInput) (any, error) {
	id, err := httpkit.ParamInt64(r, "id")
	if err != nil {
		return nil, err
	}
	return h.svc.UpdateResolution(r.Context(), id, in)
}

// swagger:route POST /occurrences/snapshot Occurrences occurrencesSnapshot
// @Summary Filter a whole window in memory
// @Tags Occurrences
// @Accept json
// @Produce json
// @Param payload body domain.SnapshotInput true "Window and filters"
// @Success 200 {object} domain.SnapshotResult "ok"
// @Router /occurrences/snapshot [post]
func (h *handlers) snapshot(r *stdhttp.Request, in domain.SnapshotInput) (any, error) {
	return h.svc.Snapshot(r.Context(), in)
}
