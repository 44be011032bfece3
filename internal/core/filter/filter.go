// Package filter narrows an in-memory occurrence list by search text and
// equality filters
package filter

import (
	"bluebird/internal/core/occurrence"
	"bluebird/internal/core/textfold"
	perr "bluebird/internal/platform/errors"
)

// All is the sentinel that disables an equality filter
const All = "all"

// Keys accepted by With
const (
	KeySearch   = "search"
	KeyStatus   = "status"
	KeyCategory = "category"
	KeyChatType = "chatType"
)

// State is the filter bar state
type State struct {
	Search   string `json:"search"`
	Status   string `json:"status"`
	Category string `json:"category"`
	ChatType string `json:"chatType"`
}

// Default is the all-permissive state
func Default() State {
	return State{Search: "", Status: All, Category: All, ChatType: All}
}

// Clear resets every filter
func (State) Clear() State { return Default() }

// With returns a copy of s with one key replaced
func (s State) With(key, value string) (State, error) {
	switch key {
	case KeySearch:
		s.Search = value
	case KeyStatus:
		s.Status = orAll(value)
	case KeyCategory:
		s.Category = orAll(value)
	case KeyChatType, "squad":
		s.ChatType = orAll(value)
	default:
		return s, perr.WithField(perr.InvalidArgf("unknown filter %q", key), "key")
	}
	return s, nil
}

// Normalize fills blank equality filters with All
func (s State) Normalize() State {
	s.Status = orAll(s.Status)
	s.Category = orAll(s.Category)
	s.ChatType = orAll(s.ChatType)
	return s
}

// HasActiveFilters is true when any filter differs from its default
func HasActiveFilters(s State) bool {
	return s.Search != "" || s.Status != All || s.Category != All || s.ChatType != All
}

// Apply keeps the items that satisfy every active predicate. Input order is
// preserved and the input slice is never modified
func Apply(items []occurrence.Occurrence, s State) []occurrence.Occurrence {
	s = s.Normalize()
	if !HasActiveFilters(s) {
		return items
	}

	m := newMatcher(s)
	out := make([]occurrence.Occurrence, 0, len(items))
	for _, it := range items {
		if m.match(it) {
			out = append(out, it)
		}
	}
	return out
}

// Result bundles the filtered list with its counts
type Result struct {
	Items            []occurrence.Occurrence `json:"items"`
	TotalCount       int                     `json:"total_count"`
	FilteredCount    int                     `json:"filtered_count"`
	HasActiveFilters bool                    `json:"has_active_filters"`
}

// Run applies s and reports counts
func Run(items []occurrence.Occurrence, s State) Result {
	filtered := Apply(items, s)
	if filtered == nil {
		filtered = []occurrence.Occurrence{}
	}
	return Result{
		Items:            filtered,
		TotalCount:       len(items),
		FilteredCount:    len(filtered),
		HasActiveFilters: HasActiveFilters(s.Normalize()),
	}
}

// SearchFields are the fields a search term is matched against
func SearchFields(o occurrence.Occurrence) []string {
	return []string{o.Description, o.ChatName, o.Keywords, o.Category, o.ClientName}
}

type matcher struct {
	term     string
	status   string
	category string
	chatType string
}

func newMatcher(s State) matcher {
	m := matcher{term: textfold.Term(s.Search)}
	if s.Status != All {
		m.status = s.Status
	}
	if s.Category != All {
		m.category = textfold.Fold(s.Category)
	}
	if s.ChatType != All {
		m.chatType = s.ChatType
	}
	return m
}

func (m matcher) match(o occurrence.Occurrence) bool {
	if m.term != "" && !anyContains(SearchFields(o), m.term) {
		return false
	}
	if m.status != "" && o.Status != m.status {
		return false
	}
	if m.category != "" && textfold.Fold(o.Category) != m.category {
		return false
	}
	if m.chatType != "" && o.Squad != m.chatType {
		return false
	}
	return true
}

func anyContains(fields []string, term string) bool {
	for _, f := range fields {
		if textfold.Contains(f, term) {
			return true
		}
	}
	return false
}

func orAll(v string) string {
	if v == "" {
		return All
	}
	return v
}
