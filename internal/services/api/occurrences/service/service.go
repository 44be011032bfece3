// Package service contains occurrence listing, editing and view workflows
package service

import (
	"context"
	"strings"
	"time"

	"bluebird/internal/adapters/events"
	"bluebird/internal/core/daterange"
	"bluebird/internal/core/filter"
	"bluebird/internal/core/occurrence"
	"bluebird/internal/core/query"
	"bluebird/internal/modkit/repokit"
	perr "bluebird/internal/platform/errors"
	"bluebird/internal/platform/logger"
	pnet "bluebird/internal/platform/net"
	"bluebird/internal/platform/store"
	"bluebird/internal/services/api/occurrences/domain"
	"bluebird/internal/services/api/occurrences/repo"
)

// SnapshotLimit caps the rows loaded for in-memory filtering
const SnapshotLimit = 5000

// Service defines the occurrences service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the occurrences service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner

	events   events.Emitter
	loc      *time.Location
	pageSize int
}

// Option customizes Svc
type Option func(*Svc)

// WithEvents publishes occurrences.updated after every write
func WithEvents(e events.Emitter) Option { return func(s *Svc) { s.events = e } }

// WithLocation aligns date bounds to days in loc
func WithLocation(loc *time.Location) Option {
	return func(s *Svc) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithPageSize sets the default page size
func WithPageSize(n int) Option {
	return func(s *Svc) {
		if n > 0 && n <= query.MaxPageSize {
			s.pageSize = n
		}
	}
}

// New constructs an occurrences service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opts ...Option) *Svc {
	if db == nil {
		panic("occurrences.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("occurrences.Service requires a non nil Repo binder")
	}
	s := &Svc{
		Repo:     binder.Bind(db),
		binder:   binder,
		db:       db,
		events:   events.Nop{},
		loc:      time.UTC,
		pageSize: query.DefaultPageSize,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// List returns one page and the total for the predicate
func (s *Svc) List(ctx context.Context, in domain.ListInput) (domain.ListResult, error) {
	sort, err := query.ParseSort(in.SortField, in.SortDirection)
	if err != nil {
		return domain.ListResult{}, err
	}
	size := in.PageSize
	if size == 0 {
		size = s.pageSize
	}
	page, err := query.ParsePage(in.Page, size)
	if err != nil {
		return domain.ListResult{}, err
	}
	rng := daterange.Range{From: in.From, To: in.To}
	if err := rng.Validate(); err != nil {
		return domain.ListResult{}, err
	}
	from, to := rng.In(s.loc).Bounds()

	q := repo.Query{
		Search:   strings.TrimSpace(in.Search),
		Status:   in.Status,
		Category: in.Category,
		Squad:    in.Squad,
		From:     from,
		To:       to,
		Sort:     sort,
		Page:     page,
	}
	total, err := s.Repo.Count(ctx, q)
	if err != nil {
		return domain.ListResult{}, err
	}
	items := []occurrence.Occurrence{}
	// skip the page query when the window starts past the last row
	if page.Offset() < total {
		if items, err = s.Repo.List(ctx, q); err != nil {
			return domain.ListResult{}, err
		}
	}
	return domain.ListResult{
		Items:      items,
		Total:      total,
		Page:       page.Number,
		PageSize:   page.Size,
		TotalPages: query.TotalPages(total, page.Size),
	}, nil
}

// Get returns one occurrence or NotFound
func (s *Svc) Get(ctx context.Context, id int64) (occurrence.Occurrence, error) {
	if id <= 0 {
		return occurrence.Occurrence{}, perr.WithField(perr.InvalidArgf("invalid occurrence id"), "id")
	}
	return s.Repo.Get(ctx, id)
}

// UpdateStatus sets status to aberto or resolvido
func (s *Svc) UpdateStatus(ctx context.Context, id int64, in domain.StatusInput) (occurrence.Occurrence, error) {
	if !occurrence.Status(in.Status).Valid() {
		return occurrence.Occurrence{}, perr.WithField(perr.Validationf("status must be aberto or resolvido"), "status")
	}
	return s.update(ctx, id, repo.ColumnStatus, in.Status, in.IfUnmodifiedSince)
}

// UpdateDescription replaces the description text
func (s *Svc) UpdateDescription(ctx context.Context, id int64, in domain.TextInput) (occurrence.Occurrence, error) {
	return s.update(ctx, id, repo.ColumnDescription, in.Text, in.IfUnmodifiedSince)
}

// UpdateResolution replaces the resolution text
func (s *Svc) UpdateResolution(ctx context.Context, id int64, in domain.TextInput) (occurrence.Occurrence, error) {
	return s.update(ctx, id, repo.ColumnResolution, in.Text, in.IfUnmodifiedSince)
}

func (s *Svc) update(ctx context.Context, id int64, col repo.Column, value string, since *time.Time) (occurrence.Occurrence, error) {
	if id <= 0 {
		return occurrence.Occurrence{}, perr.WithField(perr.InvalidArgf("invalid occurrence id"), "id")
	}
	var actor string
	if u, ok := pnet.UserFrom(ctx); ok {
		actor = u.ID
	}
	var o occurrence.Occurrence
	err := store.RunAsUser(ctx, s.db, actor, func(ctx context.Context, q store.RowQuerier) error {
		var err error
		o, err = s.binder.Bind(q).Update(ctx, id, col, value, since)
		return err
	})
	if err != nil {
		return occurrence.Occurrence{}, err
	}
	logger.C(ctx).Info().Int64("occurrence_id", id).Str("column", string(col)).Msg("occurrence updated")
	s.events.Emit(ctx, events.OccurrenceUpdated, map[string]any{"id": id, "field": string(col)})
	return o, nil
}

// Snapshot loads the whole window and filters it in memory
func (s *Svc) Snapshot(ctx context.Context, in domain.SnapshotInput) (domain.SnapshotResult, error) {
	rng := daterange.Range{From: in.From, To: in.To}
	if err := rng.Validate(); err != nil {
		return domain.SnapshotResult{}, err
	}
	from, to := rng.In(s.loc).Bounds()
	rows, err := s.Repo.Window(ctx, from, to, SnapshotLimit)
	if err != nil {
		return domain.SnapshotResult{}, err
	}
	res := filter.Run(rows, in.Filter.Normalize())
	return domain.SnapshotResult{
		Items:            res.Items,
		TotalCount:       res.TotalCount,
		FilteredCount:    res.FilteredCount,
		HasActiveFilters: res.HasActiveFilters,
		Truncated:        len(rows) >= SnapshotLimit,
	}, nil
}
