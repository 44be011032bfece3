package http

import (
	stdhttp "net/http"

	"bluebird/internal/modkit/httpkit"
	"bluebird/internal/services/api/occurrences/domain"
)

// @Summary Current listing state of the signed-in user
// @Tags Occurrences
// @Produce json
// @Success 200 {object} domain.ViewState "ok"
// @Failure 401 {object} httpkit.Envelope "no session"
// @Router /occurrences/view [get]
func (h *handlers) view(r *stdhttp.Request) (any, error) {
	u, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.views.View(r.Context(), u.ID), nil
}

// @Summary Re-run the current listing query
// @Tags Occurrences
// @Produce json
// @Success 200 {object} domain.ViewState "ok"
// @Router /occurrences/view/refresh [post]
func (h *handlers) refresh(r *stdhttp.Request) (any, error) {
	u, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.views.Refresh(r.Context(), u.ID), nil
}

// @Summary Set one filter
// @Tags Occurrences
// @Accept json
// @Produce json
// @Param payload body domain.FilterInput true "Filter"
// @Success 200 {object} domain.ViewState "ok"
// @Router /occurrences/view/filter [post]
func (h *handlers) setFilter(r *stdhttp.Request, in domain.FilterInput) (any, error) {
	u, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.views.SetFilter(r.Context(), u.ID, in)
}

// @Summary Clear every filter
// @Tags Occurrences
// @Produce json
// @Success 200 {object} domain.ViewState "ok"
// @Router /occurrences/view/filter/clear [post]
func (h *handlers) clearFilters(r *stdhttp.Request) (any, error) {
	u, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.views.ClearFilters(r.Context(), u.ID), nil
}

// @Summary Toggle the sort column
// @Tags Occurrences
// @Accept json
// @Produce json
// @Param payload body domain.SortInput true "Column"
// @Success 200 {object} domain.ViewState "ok"
// @Router /occurrences/view/sort [post]
func (h *handlers) toggleSort(r *stdhttp.Request, in domain.SortInput) (any, error) {
	u, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.views.ToggleSort(r.Context(), u.ID, in)
}

// @Summary Move to a page
// @Tags Occurrences
// @Accept json
// @Produce json
// @Param payload body domain.PageInput true "Page"
// @Success 200 {object} domain.ViewState "ok"
// @Router /occurrences/view/page [post]
func (h *handlers) setPage(r *stdhttp.Request, in domain.PageInput) (any, error) {
	u, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.views.SetPage(r.Context(), u.ID, in), nil
}

// @Summary Set the date window
// @Tags Occurrences
// @Accept json
// @Produce json
// @Param payload body domain.RangeInput true "Preset or explicit window"
// @Success 200 {object} domain.ViewState "ok"
// @Router /occurrences/view/range [post]
func (h *handlers) setRange(r *stdhttp.Request, in domain.RangeInput) (any, error) {
	u, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.views.SetRange(r.Context(), u.ID, in)
}

func (h *handlers) resizeStart(r *stdhttp.Request, in domain.ResizeInput) (any, error) {
	u, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.views.ResizeStart(u.ID, in).Columns, nil
}

func (h *handlers) resizeMove(r *stdhttp.Request, in domain.ResizeInput) (any, error) {
	u, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.views.ResizeMove(u.ID, in).Columns, nil
}

func (h *handlers) resizeEnd(r *stdhttp.Request) (any, error) {
	u, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.views.ResizeEnd(u.ID).Columns, nil
}
