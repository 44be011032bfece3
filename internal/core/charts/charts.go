// Package charts aggregates occurrence rows into the dashboard series in a
// single pass
package charts

import (
	"cmp"
	"slices"
	"time"

	"bluebird/internal/core/occurrence"
)

// Placeholders for blank dimension values
const (
	UnknownClient   = "Cliente Desconhecido"
	UnknownCategory = "Sem Categoria"
	UnknownStatus   = "Sem Status"
	UnknownChat     = "Chat Desconhecido"
	UnknownChatType = "Desconhecido"
)

// Defaults for Options
const (
	DefaultTopN   = 10
	DefaultRecent = 5
)

// Options tune aggregation
type Options struct {
	// Location decides which calendar day a row belongs to
	Location *time.Location
	TopN     int
	Recent   int
}

func (o Options) normalize() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.TopN <= 0 {
		o.TopN = DefaultTopN
	}
	if o.Recent <= 0 {
		o.Recent = DefaultRecent
	}
	return o
}

// DayTotal is one point of the daily series
type DayTotal struct {
	Date  time.Time `json:"date"`
	Label string    `json:"label"`
	Total int       `json:"total"`
}

// StatusDay is one stacked bar of open vs resolved
type StatusDay struct {
	Date      time.Time `json:"date"`
	Label     string    `json:"label"`
	Aberto    int       `json:"aberto"`
	Resolvido int       `json:"resolvido"`
}

// SquadDay is one point of the squad comparison
type SquadDay struct {
	Date                  time.Time `json:"date"`
	Label                 string    `json:"label"`
	EliteDoFluxo          int       `json:"Elite do Fluxo"`
	ForcaTaticaFinanceira int       `json:"Força Tática Financeira"`
}

// NameTotal is a count per name
type NameTotal struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

// RecentItem is one row of the latest occurrences list
type RecentItem struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Category  string    `json:"category"`
	ChatName  string    `json:"chat_name"`
	Status    string    `json:"status"`
	ChatType  string    `json:"chat_type"`
	Channel   string    `json:"channel"`
	Tone      string    `json:"tone"`
}

// Series is everything the dashboard charts draw
type Series struct {
	Daily       []DayTotal   `json:"daily"`
	StatusByDay []StatusDay  `json:"status_by_day"`
	SquadByDay  []SquadDay   `json:"squad_by_day"`
	Clients     []NameTotal  `json:"clients"`
	Categories  []NameTotal  `json:"categories"`
	Statuses    []NameTotal  `json:"statuses"`
	Recent      []RecentItem `json:"recent"`
}

// Empty returns a Series with every slice non-nil
func Empty() Series {
	return Series{
		Daily:       []DayTotal{},
		StatusByDay: []StatusDay{},
		SquadByDay:  []SquadDay{},
		Clients:     []NameTotal{},
		Categories:  []NameTotal{},
		Statuses:    []NameTotal{},
		Recent:      []RecentItem{},
	}
}

type dayAcc struct {
	total, aberto, resolvido int
	elite, forca             int
}

// Aggregate builds every series from rows. Rows are expected to already be
// bounded to the window; no filtering happens here
func Aggregate(rows []occurrence.Occurrence, opts Options) Series {
	opts = opts.normalize()
	out := Empty()
	if len(rows) == 0 {
		return out
	}

	days := make(map[time.Time]*dayAcc)
	clients := make(map[string]int)
	categories := make(map[string]int)
	statuses := make(map[string]int)

	for _, r := range rows {
		day := dayKey(r.CreatedAt, opts.Location)
		acc := days[day]
		if acc == nil {
			acc = &dayAcc{}
			days[day] = acc
		}
		acc.total++

		switch occurrence.Status(r.Status) {
		case occurrence.StatusOpen:
			acc.aberto++
		case occurrence.StatusResolved:
			acc.resolvido++
		}
		switch r.Squad {
		case occurrence.SquadEliteDoFluxo:
			acc.elite++
		case occurrence.SquadForcaTaticaFinanceira:
			acc.forca++
		}

		clients[orDefault(r.ClientName, UnknownClient)]++
		categories[orDefault(r.Category, UnknownCategory)]++
		statuses[orDefault(r.Status, UnknownStatus)]++
	}

	keys := make([]time.Time, 0, len(days))
	for d := range days {
		keys = append(keys, d)
	}
	slices.SortFunc(keys, func(a, b time.Time) int { return a.Compare(b) })

	for _, d := range keys {
		acc := days[d]
		label := Label(d)
		out.Daily = append(out.Daily, DayTotal{Date: d, Label: label, Total: acc.total})
		out.StatusByDay = append(out.StatusByDay, StatusDay{Date: d, Label: label, Aberto: acc.aberto, Resolvido: acc.resolvido})
		out.SquadByDay = append(out.SquadByDay, SquadDay{Date: d, Label: label, EliteDoFluxo: acc.elite, ForcaTaticaFinanceira: acc.forca})
	}

	out.Clients = topN(clients, opts.TopN)
	out.Categories = topN(categories, opts.TopN)
	out.Statuses = topN(statuses, 0)
	out.Recent = recent(rows, opts.Recent)
	return out
}

// Label formats a day key as dd/mm
func Label(d time.Time) string { return d.Format("02/01") }

func dayKey(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// topN sorts by count desc then name asc; n <= 0 keeps everything
func topN(m map[string]int, n int) []NameTotal {
	out := make([]NameTotal, 0, len(m))
	for k, v := range m {
		out = append(out, NameTotal{Name: k, Total: v})
	}
	slices.SortFunc(out, func(a, b NameTotal) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func recent(rows []occurrence.Occurrence, n int) []RecentItem {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b occurrence.Occurrence) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make([]RecentItem, 0, len(sorted))
	for _, r := range sorted {
		status := orDefault(r.Status, UnknownStatus)
		out = append(out, RecentItem{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			Category:  orDefault(r.Category, UnknownCategory),
			ChatName:  orDefault(r.ChatName, UnknownChat),
			Status:    occurrence.StatusLabel(status),
			ChatType:  occurrence.ChannelLabel(orDefault(r.Squad, UnknownChatType)),
			Channel:   occurrence.ChannelLabel(r.Channel),
			Tone:      string(occurrence.StatusTone(r.Status)),
		})
	}
	return out
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
