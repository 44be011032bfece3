// Package service resolves chart windows and runs the aggregation
package service

import (
	"context"
	"time"

	"bluebird/internal/core/charts"
	"bluebird/internal/core/daterange"
	"bluebird/internal/platform/logger"
	"bluebird/internal/services/api/charts/domain"
	"bluebird/internal/services/api/charts/repo"
)

// MaxRows caps one window load
const MaxRows = 50000

// open bounds fall back to these instants
var (
	openFrom = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	openTo   = time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
)

// Option configures the service
type Option func(*Svc)

// WithLocation sets the business timezone used for day buckets
func WithLocation(loc *time.Location) Option {
	return func(s *Svc) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option { return func(s *Svc) { s.now = now } }

// WithMaxRows overrides MaxRows
func WithMaxRows(n int) Option {
	return func(s *Svc) {
		if n > 0 {
			s.maxRows = n
		}
	}
}

// Svc implements domain.ServicePort
type Svc struct {
	src     repo.RowSource
	loc     *time.Location
	now     func() time.Time
	maxRows int
	log     logger.Logger
}

// New constructs the chart service over a row source
func New(src repo.RowSource, opts ...Option) *Svc {
	if src == nil {
		panic("charts: nil row source")
	}
	s := &Svc{src: src, loc: time.UTC, now: time.Now, maxRows: MaxRows, log: *logger.Named("charts")}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Window resolves the input into inclusive day-aligned bounds
func (s *Svc) Window(in domain.WindowInput) (domain.Window, error) {
	now := s.now().In(s.loc)

	var rng daterange.Range
	switch {
	case in.Preset != "":
		r, err := daterange.ParsePreset(in.Preset, now)
		if err != nil {
			return domain.Window{}, err
		}
		rng = r
	case in.From == nil && in.To == nil:
		rng = daterange.Default(now)
	default:
		rng = daterange.Range{From: in.From, To: in.To}
	}
	if err := rng.Validate(); err != nil {
		return domain.Window{}, err
	}

	w := domain.Window{From: openFrom, To: openTo}
	from, to := rng.In(s.loc).Bounds()
	if from != nil {
		w.From = *from
	}
	if to != nil {
		w.To = *to
	}
	return w, nil
}

// Series aggregates the window into every chart series
func (s *Svc) Series(ctx context.Context, in domain.WindowInput) (domain.SeriesResult, error) {
	w, err := s.Window(in)
	if err != nil {
		return domain.SeriesResult{}, err
	}
	rows, err := s.src.Rows(ctx, w.From, w.To, s.maxRows)
	if err != nil {
		logger.C(ctx).Error().Err(err).Time("from", w.From).Time("to", w.To).Msg("chart rows failed")
		return domain.SeriesResult{}, err
	}
	if len(rows) >= s.maxRows {
		s.log.Warn().Int("rows", len(rows)).Msg("chart window hit the row cap")
	}
	return domain.SeriesResult{
		Window: w,
		Count:  len(rows),
		Series: charts.Aggregate(rows, charts.Options{Location: s.loc}),
	}, nil
}

// Metrics computes the KPI cards for the window
func (s *Svc) Metrics(ctx context.Context, in domain.WindowInput) (domain.MetricsResult, error) {
	w, err := s.Window(in)
	if err != nil {
		return domain.MetricsResult{}, err
	}
	now := s.now()
	rows, err := s.src.Rows(ctx, w.From, w.To, s.maxRows)
	if err != nil {
		logger.C(ctx).Error().Err(err).Msg("metric rows failed")
		return domain.MetricsResult{}, err
	}
	recent, err := s.src.Rows(ctx, now.Add(-48*time.Hour), now, s.maxRows)
	if err != nil {
		logger.C(ctx).Error().Err(err).Msg("metric 48h rows failed")
		return domain.MetricsResult{}, err
	}
	return domain.MetricsResult{
		Window: w,
		KPIs: charts.Metrics(charts.MetricsInput{
			Window:  rows,
			Last48h: recent,
			From:    w.From,
			To:      w.To,
			Now:     now,
		}),
	}, nil
}
