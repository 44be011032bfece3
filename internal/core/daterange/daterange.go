// Package daterange computes dashboard date windows and tests membership.
// Bounds are whole days in the location of the reference time
package daterange

import (
	"time"

	perr "bluebird/internal/platform/errors"
)

// Preset names accepted by Preset and ParsePreset
const (
	Today      = "today"
	Yesterday  = "yesterday"
	Last7Days  = "last7Days"
	Last30Days = "last30Days"
	Last90Days = "last90Days"
)

// Range is an optional [From, To] day window; a nil bound is open
type Range struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// IsZero reports whether neither bound is set
func (r Range) IsZero() bool { return r.From == nil && r.To == nil }

// New builds a Range from two instants
func New(from, to time.Time) Range { return Range{From: &from, To: &to} }

// Default is the dashboard's initial window: the last 7 days up to now
func Default(now time.Time) Range { return New(now.AddDate(0, 0, -7), now) }

// Preset returns the named window relative to now
func Preset(name string, now time.Time) (Range, bool) {
	switch name {
	case Today:
		return New(now, now), true
	case Yesterday:
		y := now.AddDate(0, 0, -1)
		return New(y, y), true
	case Last7Days:
		return New(now.AddDate(0, 0, -7), now), true
	case Last30Days:
		return New(now.AddDate(0, 0, -30), now), true
	case Last90Days:
		return New(now.AddDate(0, 0, -90), now), true
	}
	return Range{}, false
}

// ParsePreset is Preset with an InvalidArgument error for unknown names
func ParsePreset(name string, now time.Time) (Range, error) {
	r, ok := Preset(name, now)
	if !ok {
		return Range{}, perr.InvalidArgf("unknown date preset %q", name)
	}
	return r, nil
}

// Presets lists the preset names in display order
func Presets() []string {
	return []string{Today, Yesterday, Last7Days, Last30Days, Last90Days}
}

// StartOfDay truncates t to midnight in its own location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last nanosecond of t's day in its own location
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// Bounds returns the inclusive instants for a server side query.
// Open bounds come back as nil
func (r Range) Bounds() (from, to *time.Time) {
	if r.From != nil {
		f := StartOfDay(*r.From)
		from = &f
	}
	if r.To != nil {
		t := EndOfDay(*r.To)
		to = &t
	}
	return from, to
}

// Contains reports whether t falls inside the day-aligned range.
// An unset range contains everything
func (r Range) Contains(t time.Time) bool {
	from, to := r.Bounds()
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

// Validate rejects a range whose start falls after its end
func (r Range) Validate() error {
	if r.From != nil && r.To != nil && StartOfDay(*r.From).After(StartOfDay(*r.To)) {
		return perr.WithField(perr.InvalidArgf("from must not be after to"), "from")
	}
	return nil
}

// In returns r with both bounds moved into loc
func (r Range) In(loc *time.Location) Range {
	out := Range{}
	if r.From != nil {
		f := r.From.In(loc)
		out.From = &f
	}
	if r.To != nil {
		t := r.To.In(loc)
		out.To = &t
	}
	return out
}

// FilterByDate keeps the items whose date lies in r. Items without a date
// are dropped once any bound is set
func FilterByDate[T any](items []T, r Range, dateOf func(T) (time.Time, bool)) []T {
	if r.IsZero() {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		t, ok := dateOf(it)
		if !ok || t.IsZero() {
			continue
		}
		if r.Contains(t) {
			out = append(out, it)
		}
	}
	return out
}
