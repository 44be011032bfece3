package service

import (
	"context"
	"sync"
	"time"

	"bluebird/internal/core/colwidth"
	"bluebird/internal/core/daterange"
	"bluebird/internal/core/filter"
	"bluebird/internal/core/occurrence"
	"bluebird/internal/core/query"
	perr "bluebird/internal/platform/errors"
	"bluebird/internal/platform/logger"
	"bluebird/internal/platform/metrics"
	"bluebird/internal/services/api/occurrences/domain"
)

// Lister is the slice of the service a view needs
type Lister interface {
	List(ctx context.Context, in domain.ListInput) (domain.ListResult, error)
}

// Views keeps one listing state per signed-in user. Every mutation
// re-fetches; a fetch only commits while its ticket is the newest
type Views struct {
	list     Lister
	pageSize int
	loc      *time.Location
	now      func() time.Time
	metrics  *metrics.Metrics

	mu    sync.Mutex
	views map[string]*view
}

type view struct {
	mu sync.Mutex

	filter filter.State
	sort   query.Sort
	page   query.Page
	rng    daterange.Range
	preset string

	items   []occurrence.Occurrence
	total   int
	err     string
	loading bool
	fetched bool

	cols *colwidth.State
	gen  query.Generation
	last query.Ticket
}

// NewViews builds the view store on top of a Lister
func NewViews(l Lister, pageSize int, loc *time.Location, m *metrics.Metrics) *Views {
	if l == nil {
		panic("occurrences.Views requires a non nil Lister")
	}
	if pageSize <= 0 {
		pageSize = query.DefaultPageSize
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Views{
		list:     l,
		pageSize: pageSize,
		loc:      loc,
		now:      time.Now,
		metrics:  m,
		views:    map[string]*view{},
	}
}

func (vs *Views) get(user string) *view {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	v, ok := vs.views[user]
	if !ok {
		v = &view{
			filter: filter.Default(),
			sort:   query.DefaultSort(),
			page:   query.NewPage(1, vs.pageSize),
			items:  []occurrence.Occurrence{},
			cols:   colwidth.New(),
		}
		vs.views[user] = v
	}
	return v
}

// View returns the current state, fetching once for a new view
func (vs *Views) View(ctx context.Context, user string) domain.ViewState {
	v := vs.get(user)
	v.mu.Lock()
	fetched := v.fetched || v.loading
	v.mu.Unlock()
	if !fetched {
		return vs.refetch(ctx, v)
	}
	return v.snapshot()
}

// Refresh re-runs the current query
func (vs *Views) Refresh(ctx context.Context, user string) domain.ViewState {
	return vs.refetch(ctx, vs.get(user))
}

// SetFilter updates one filter and goes back to page 1
func (vs *Views) SetFilter(ctx context.Context, user string, in domain.FilterInput) (domain.ViewState, error) {
	v := vs.get(user)
	v.mu.Lock()
	next, err := v.filter.With(in.Key, in.Value)
	if err != nil {
		v.mu.Unlock()
		return domain.ViewState{}, err
	}
	v.filter = next
	v.page.Number = 1
	v.mu.Unlock()
	return vs.refetch(ctx, v), nil
}

// ClearFilters restores the default filters and goes back to page 1
func (vs *Views) ClearFilters(ctx context.Context, user string) domain.ViewState {
	v := vs.get(user)
	v.mu.Lock()
	v.filter = v.filter.Clear()
	v.page.Number = 1
	v.mu.Unlock()
	return vs.refetch(ctx, v)
}

// ToggleSort flips the direction for the current column or starts a new
// column ascending
func (vs *Views) ToggleSort(ctx context.Context, user string, in domain.SortInput) (domain.ViewState, error) {
	v := vs.get(user)
	v.mu.Lock()
	next, err := v.sort.Toggle(in.Field)
	if err != nil {
		v.mu.Unlock()
		return domain.ViewState{}, err
	}
	v.sort = next
	v.mu.Unlock()
	return vs.refetch(ctx, v), nil
}

// SetPage moves to page, clamped to the page count once a fetch has reported one
func (vs *Views) SetPage(ctx context.Context, user string, in domain.PageInput) domain.ViewState {
	v := vs.get(user)
	v.mu.Lock()
	p := v.page
	p.Number = in.Page
	if v.fetched {
		p = p.Clamp(v.total)
	} else {
		p.Number = max(1, p.Number)
	}
	v.page = p
	v.mu.Unlock()
	return vs.refetch(ctx, v)
}

// SetRange applies a preset or an explicit window. An empty input clears it
func (vs *Views) SetRange(ctx context.Context, user string, in domain.RangeInput) (domain.ViewState, error) {
	var (
		rng daterange.Range
		err error
	)
	switch {
	case in.Preset != "":
		rng, err = daterange.ParsePreset(in.Preset, vs.now().In(vs.loc))
		if err != nil {
			return domain.ViewState{}, perr.WithField(err, "preset")
		}
	default:
		rng = daterange.Range{From: in.From, To: in.To}
		if err := rng.Validate(); err != nil {
			return domain.ViewState{}, err
		}
	}

	v := vs.get(user)
	v.mu.Lock()
	v.rng = rng
	v.preset = in.Preset
	v.page.Number = 1
	v.mu.Unlock()
	return vs.refetch(ctx, v), nil
}

// ResizeStart begins a column drag
func (vs *Views) ResizeStart(user string, in domain.ResizeInput) domain.ViewState {
	v := vs.get(user)
	v.mu.Lock()
	v.cols.Start(in.Column, in.X)
	v.mu.Unlock()
	return v.snapshot()
}

// ResizeMove updates the dragged column width
func (vs *Views) ResizeMove(user string, in domain.ResizeInput) domain.ViewState {
	v := vs.get(user)
	v.mu.Lock()
	v.cols.Move(in.X)
	v.mu.Unlock()
	return v.snapshot()
}

// ResizeEnd finishes the drag
func (vs *Views) ResizeEnd(user string) domain.ViewState {
	v := vs.get(user)
	v.mu.Lock()
	v.cols.End()
	v.mu.Unlock()
	return v.snapshot()
}

// Drop forgets a user's view and cancels its in-flight fetch
func (vs *Views) Drop(user string) {
	vs.mu.Lock()
	v, ok := vs.views[user]
	delete(vs.views, user)
	vs.mu.Unlock()
	if ok {
		v.gen.Stop()
	}
}

// DropOn drops views for every user id received until ch closes or ctx ends
func (vs *Views) DropOn(ctx context.Context, ch <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case user, ok := <-ch:
			if !ok {
				return
			}
			vs.Drop(user)
		}
	}
}

// Len is the number of live views
func (vs *Views) Len() int {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return len(vs.views)
}

func (vs *Views) refetch(ctx context.Context, v *view) domain.ViewState {
	v.mu.Lock()
	in := v.input()
	fctx, t := v.gen.Next(ctx)
	v.last = t
	v.loading = true
	v.mu.Unlock()

	res, err := vs.list.List(fctx, in)

	v.mu.Lock()
	if !v.gen.Current(t) {
		v.mu.Unlock()
		vs.metrics.ViewFetch("stale")
		return v.snapshot()
	}
	v.gen.Done(t)
	v.loading = false
	v.fetched = true
	if err != nil {
		logger.C(ctx).Warn().Err(err).Msg("occurrence view fetch failed")
		v.items = []occurrence.Occurrence{}
		v.total = 0
		v.err = err.Error()
		vs.metrics.ViewFetch("error")
	} else {
		v.items = res.Items
		v.total = res.Total
		v.err = ""
		vs.metrics.ViewFetch("committed")
	}
	v.mu.Unlock()
	return v.snapshot()
}

func (v *view) input() domain.ListInput {
	f := v.filter.Normalize()
	return domain.ListInput{
		Search:        f.Search,
		Status:        f.Status,
		Category:      f.Category,
		Squad:         f.ChatType,
		Page:          v.page.Number,
		PageSize:      v.page.Size,
		SortField:     v.sort.Field,
		SortDirection: string(v.sort.Direction),
		From:          v.rng.From,
		To:            v.rng.To,
	}
}

func (v *view) snapshot() domain.ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	items := make([]occurrence.Occurrence, len(v.items))
	copy(items, v.items)
	return domain.ViewState{
		Filter:           v.filter,
		HasActiveFilters: filter.HasActiveFilters(v.filter.Normalize()),
		Sort:             v.sort,
		Page:             v.page,
		Range:            v.rng,
		Preset:           v.preset,
		Items:            items,
		Total:            v.total,
		TotalPages:       query.TotalPages(v.total, v.page.Size),
		Loading:          v.loading,
		Error:            v.err,
		Columns:          v.cols.Snapshot(),
		Generation:       uint64(v.last),
	}
}
