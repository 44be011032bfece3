package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"bluebird/internal/core/occurrence"
	perr "bluebird/internal/platform/errors"
	"bluebird/internal/services/api/charts/domain"
)

type call struct{ from, to time.Time }

type fakeSource struct {
	rows  []occurrence.Occurrence
	calls []call
	err   error
}

func (f *fakeSource) Rows(_ context.Context, from, to time.Time, _ int) ([]occurrence.Occurrence, error) {
	f.calls = append(f.calls, call{from, to})
	if f.err != nil {
		return nil, f.err
	}
	var out []occurrence.Occurrence
	for _, r := range f.rows {
		if !r.CreatedAt.Before(from) && !r.CreatedAt.After(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

var brt = time.FixedZone("BRT", -3*3600)

// 2025-03-10 12:00 in BRT
var fixedNow = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func newSvc(src *fakeSource) *Svc {
	return New(src, WithLocation(brt), WithClock(func() time.Time { return fixedNow }))
}

func TestNew_PanicsOnNilSource(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New(nil)
}

func TestWindow_DefaultsToLastSevenDays(t *testing.T) {
	s := newSvc(&fakeSource{})
	w, err := s.Window(domain.WindowInput{})
	if err != nil {
		t.Fatal(err)
	}
	wantFrom := time.Date(2025, 3, 3, 0, 0, 0, 0, brt)
	wantTo := time.Date(2025, 3, 11, 0, 0, 0, 0, brt).Add(-time.Nanosecond)
	if !w.From.Equal(wantFrom) || !w.To.Equal(wantTo) {
		t.Fatalf("window=%v..%v", w.From, w.To)
	}
}

func TestWindow_OpenBoundFallsBack(t *testing.T) {
	s := newSvc(&fakeSource{})
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, brt)
	w, err := s.Window(domain.WindowInput{From: &from})
	if err != nil {
		t.Fatal(err)
	}
	if w.To.Year() != 2100 || w.From.Year() != 2025 {
		t.Fatalf("window=%v..%v", w.From, w.To)
	}
}

func TestWindow_RejectsBadInput(t *testing.T) {
	s := newSvc(&fakeSource{})
	if _, err := s.Window(domain.WindowInput{Preset: "lastYear"}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("preset err=%v", err)
	}
	from := time.Date(2025, 2, 1, 0, 0, 0, 0, brt)
	to := time.Date(2025, 1, 1, 0, 0, 0, 0, brt)
	if _, err := s.Window(domain.WindowInput{From: &from, To: &to}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("reversed err=%v", err)
	}
}

func TestSeries_BucketsByBusinessDay(t *testing.T) {
	src := &fakeSource{rows: []occurrence.Occurrence{
		// 01:00 UTC on the 10th is still the 9th in BRT
		{ID: 1, CreatedAt: time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC), Status: "aberto"},
		{ID: 2, CreatedAt: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC), Status: "resolvido"},
		{ID: 3, CreatedAt: time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC), Status: "aberto"},
	}}
	res, err := newSvc(src).Series(context.Background(), domain.WindowInput{Preset: "last7Days"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Count != 3 || len(res.Daily) != 2 {
		t.Fatalf("count=%d daily=%+v", res.Count, res.Daily)
	}
	if res.Daily[0].Label != "09/03" || res.Daily[0].Total != 1 || res.Daily[1].Total != 2 {
		t.Fatalf("daily=%+v", res.Daily)
	}
	sum := 0
	for _, d := range res.Daily {
		sum += d.Total
	}
	if sum != res.Count {
		t.Fatalf("sum=%d count=%d", sum, res.Count)
	}
}

func TestSeries_ErrorReturnsNoPartialResult(t *testing.T) {
	src := &fakeSource{err: errors.New("boom")}
	res, err := newSvc(src).Series(context.Background(), domain.WindowInput{})
	if err == nil {
		t.Fatal("expected error")
	}
	if res.Daily != nil || res.Count != 0 {
		t.Fatalf("partial result %+v", res)
	}
}

func TestMetrics_UsesWindowAndLast48h(t *testing.T) {
	src := &fakeSource{rows: []occurrence.Occurrence{
		{ID: 1, CreatedAt: fixedNow.Add(-time.Hour), Channel: occurrence.ChannelWhatsapp, Status: "aberto"},
		{ID: 2, CreatedAt: fixedNow.Add(-30 * time.Hour), Channel: occurrence.ChannelEmail, Status: "resolvido"},
		{ID: 3, CreatedAt: fixedNow.Add(-72 * time.Hour), Status: "aberto"},
	}}
	res, err := newSvc(src).Metrics(context.Background(), domain.WindowInput{})
	if err != nil {
		t.Fatal(err)
	}
	if len(src.calls) != 2 {
		t.Fatalf("calls=%d", len(src.calls))
	}
	if got := src.calls[1]; !got.to.Equal(fixedNow) || !got.from.Equal(fixedNow.Add(-48*time.Hour)) {
		t.Fatalf("48h call=%+v", got)
	}
	if res.TotalOccurrences != 3 || res.Total24h != 1 || res.PendingTotal != 2 {
		t.Fatalf("kpis=%+v", res.KPIs)
	}
	if res.AverageVariation != 0 {
		t.Fatalf("average variation=%d", res.AverageVariation)
	}
}

func TestMetrics_DefaultWindowAveragesOverSevenDays(t *testing.T) {
	src := &fakeSource{}
	for i := range 14 {
		src.rows = append(src.rows, occurrence.Occurrence{ID: int64(i + 1), CreatedAt: fixedNow.Add(-time.Duration(i) * 10 * time.Hour)})
	}
	res, err := newSvc(src).Metrics(context.Background(), domain.WindowInput{})
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalOccurrences != 14 || res.DailyAverage != 2 {
		t.Fatalf("total=%d daily_average=%v want 14 and 2", res.TotalOccurrences, res.DailyAverage)
	}
}
