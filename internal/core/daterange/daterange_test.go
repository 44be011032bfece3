package daterange

import (
	"testing"
	"time"

	perr "bluebird/internal/platform/errors"
)

var saoPaulo = time.FixedZone("BRT", -3*60*60)

func at(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, saoPaulo)
}

func TestDefault_IsLastSevenDays(t *testing.T) {
	now := at(2025, time.March, 10, 15)
	r := Default(now)
	if !r.From.Equal(at(2025, time.March, 3, 15)) || !r.To.Equal(now) {
		t.Fatalf("Default = %v..%v", r.From, r.To)
	}
}

func TestPreset(t *testing.T) {
	now := at(2025, time.March, 10, 15)
	cases := []struct {
		name     string
		fromDays int
	}{
		{Today, 0},
		{Last7Days, 7},
		{Last30Days, 30},
		{Last90Days, 90},
	}
	for _, c := range cases {
		r, ok := Preset(c.name, now)
		if !ok {
			t.Fatalf("%s: not recognised", c.name)
		}
		if !r.From.Equal(now.AddDate(0, 0, -c.fromDays)) || !r.To.Equal(now) {
			t.Fatalf("%s: got %v..%v", c.name, r.From, r.To)
		}
	}

	y, _ := Preset(Yesterday, now)
	if y.From.Day() != 9 || y.To.Day() != 9 {
		t.Fatalf("yesterday = %v..%v", y.From, y.To)
	}

	if _, ok := Preset("lastYear", now); ok {
		t.Fatalf("unknown preset accepted")
	}
	if _, err := ParsePreset("lastYear", now); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("ParsePreset err = %v", err)
	}
}

func TestContains_DayAligned(t *testing.T) {
	r := New(at(2025, time.March, 3, 15), at(2025, time.March, 10, 9))

	in := []time.Time{
		at(2025, time.March, 3, 0),
		time.Date(2025, time.March, 10, 23, 59, 59, 0, saoPaulo),
	}
	for _, ts := range in {
		if !r.Contains(ts) {
			t.Fatalf("%v should be inside", ts)
		}
	}
	out := []time.Time{
		time.Date(2025, time.March, 2, 23, 59, 59, 0, saoPaulo),
		at(2025, time.March, 11, 0),
	}
	for _, ts := range out {
		if r.Contains(ts) {
			t.Fatalf("%v should be outside", ts)
		}
	}
}

func TestContains_OpenBounds(t *testing.T) {
	if !(Range{}).Contains(time.Time{}) {
		t.Fatalf("zero range must contain everything")
	}
	from := at(2025, time.March, 3, 0)
	r := Range{From: &from}
	if r.Contains(at(2025, time.March, 2, 12)) || !r.Contains(at(2030, time.January, 1, 0)) {
		t.Fatalf("open upper bound misbehaves")
	}
}

func TestFilterByDate_DropsUndated(t *testing.T) {
	type item struct {
		id int
		ts time.Time
	}
	items := []item{
		{1, at(2025, time.March, 5, 10)},
		{2, time.Time{}},
		{3, at(2025, time.February, 1, 10)},
	}
	dateOf := func(i item) (time.Time, bool) { return i.ts, !i.ts.IsZero() }

	got := FilterByDate(items, New(at(2025, time.March, 1, 0), at(2025, time.March, 31, 0)), dateOf)
	if len(got) != 1 || got[0].id != 1 {
		t.Fatalf("FilterByDate = %+v", got)
	}
	if all := FilterByDate(items, Range{}, dateOf); len(all) != 3 {
		t.Fatalf("unset range should keep everything, got %d", len(all))
	}
}

func TestValidate(t *testing.T) {
	if err := New(at(2025, time.March, 5, 0), at(2025, time.March, 4, 0)).Validate(); err == nil {
		t.Fatalf("inverted range should fail")
	}
	if err := New(at(2025, time.March, 5, 20), at(2025, time.March, 5, 1)).Validate(); err != nil {
		t.Fatalf("same day range should pass: %v", err)
	}
}
