// Package colwidth tracks table column widths mutated by drag gestures
package colwidth

import "maps"

// Width limits in pixels
const (
	MinWidth      = 80
	FallbackWidth = 150
)

// Cursor values reported while idle and while dragging
const (
	CursorIdle     = ""
	CursorDragging = "col-resize"
)

// Defaults returns the seeded widths for the occurrences table
func Defaults() map[string]int {
	return map[string]int{
		"id":              80,
		"created_at":      140,
		"occurrence_name": 350,
		"description":     450,
		"client_name":     200,
		"status":          130,
		"category":        130,
		"squad":           130,
		"chat_name":       300,
		"resolution":      300,
		"keywords":        500,
		"actions":         100,
	}
}

type drag struct {
	column     string
	startX     int
	startWidth int
}

// State is not safe for concurrent use; callers serialise access
type State struct {
	widths map[string]int
	active *drag
}

// New returns a State seeded with Defaults
func New() *State { return &State{widths: Defaults()} }

// Start begins a drag on column at pointer x
func (s *State) Start(column string, x int) {
	w, ok := s.widths[column]
	if !ok || w == 0 {
		w = FallbackWidth
	}
	s.active = &drag{column: column, startX: x, startWidth: w}
}

// Move resizes the active column to follow pointer x and returns the new
// width. It is a no-op when no drag is active
func (s *State) Move(x int) (int, bool) {
	if s.active == nil {
		return 0, false
	}
	w := max(MinWidth, s.active.startWidth+(x-s.active.startX))
	s.widths[s.active.column] = w
	return w, true
}

// End finishes the drag
func (s *State) End() { s.active = nil }

// Resizing returns the column being dragged, if any
func (s *State) Resizing() (string, bool) {
	if s.active == nil {
		return "", false
	}
	return s.active.column, true
}

// Cursor is the body cursor to show
func (s *State) Cursor() string {
	if s.active == nil {
		return CursorIdle
	}
	return CursorDragging
}

// Width returns one column's width, falling back for unknown columns
func (s *State) Width(column string) int {
	if w, ok := s.widths[column]; ok {
		return w
	}
	return FallbackWidth
}

// Widths returns a copy of all widths
func (s *State) Widths() map[string]int { return maps.Clone(s.widths) }

// Snapshot is the serialisable form of State
type Snapshot struct {
	Widths   map[string]int `json:"widths"`
	Resizing string         `json:"resizing,omitempty"`
	Cursor   string         `json:"cursor"`
}

// Snapshot captures the current widths and drag status
func (s *State) Snapshot() Snapshot {
	col, _ := s.Resizing()
	return Snapshot{Widths: s.Widths(), Resizing: col, Cursor: s.Cursor()}
}
