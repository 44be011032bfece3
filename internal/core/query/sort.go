// Package query holds listing state: sort, page math and the generation
// counter that discards stale fetches
package query

import (
	"cmp"
	"slices"
	"strings"

	"bluebird/internal/core/occurrence"
	perr "bluebird/internal/platform/errors"
)

// Direction of a single-column sort
type Direction string

// Directions
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sortable fields
const (
	FieldCreatedAt      = "created_at"
	FieldStatus         = "status"
	FieldClientName     = "client_name"
	FieldSquad          = "squad"
	FieldCategory       = "category"
	FieldOccurrenceName = "occurrence_name"
)

var sortable = []string{
	FieldCreatedAt, FieldStatus, FieldClientName, FieldSquad, FieldCategory, FieldOccurrenceName,
}

// SortFields returns the allow-list of sortable fields
func SortFields() []string { return slices.Clone(sortable) }

// Sort is the single-column sort state
type Sort struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// DefaultSort is newest first
func DefaultSort() Sort { return Sort{Field: FieldCreatedAt, Direction: Desc} }

// ParseSort validates field and direction; blanks fall back to the default
func ParseSort(field, dir string) (Sort, error) {
	s := DefaultSort()
	if field != "" {
		if !slices.Contains(sortable, field) {
			return Sort{}, perr.WithField(perr.InvalidArgf("cannot sort by %q", field), "sort")
		}
		s.Field = field
		s.Direction = Asc
	}
	switch Direction(strings.ToLower(dir)) {
	case "":
	case Asc:
		s.Direction = Asc
	case Desc:
		s.Direction = Desc
	default:
		return Sort{}, perr.WithField(perr.InvalidArgf("invalid sort direction %q", dir), "direction")
	}
	return s, nil
}

// Toggle flips the direction when field is the current one and otherwise
// starts the new field ascending
func (s Sort) Toggle(field string) (Sort, error) {
	if !slices.Contains(sortable, field) {
		return s, perr.WithField(perr.InvalidArgf("cannot sort by %q", field), "sort")
	}
	if s.Field == field {
		if s.Direction == Asc {
			s.Direction = Desc
		} else {
			s.Direction = Asc
		}
		return s, nil
	}
	return Sort{Field: field, Direction: Asc}, nil
}

// SQL renders the ORDER BY clause. Ties break on id in the same direction.
// Field and direction come from the allow-list so nothing user-provided is
// interpolated
func (s Sort) SQL() string {
	dir := "desc"
	if s.Direction == Asc {
		dir = "asc"
	}
	field := s.Field
	if !slices.Contains(sortable, field) {
		field = FieldCreatedAt
	}
	return "order by " + field + " " + dir + ", id " + dir
}

// SortOccurrences orders items in place by s with id as tie-break
func SortOccurrences(items []occurrence.Occurrence, s Sort) {
	key := func(a, b occurrence.Occurrence) int {
		switch s.Field {
		case FieldStatus:
			return cmp.Compare(a.Status, b.Status)
		case FieldClientName:
			return cmp.Compare(a.ClientName, b.ClientName)
		case FieldSquad:
			return cmp.Compare(a.Squad, b.Squad)
		case FieldCategory:
			return cmp.Compare(a.Category, b.Category)
		case FieldOccurrenceName:
			return cmp.Compare(a.OccurrenceName, b.OccurrenceName)
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}
	slices.SortStableFunc(items, func(a, b occurrence.Occurrence) int {
		c := key(a, b)
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if s.Direction == Desc {
			return -c
		}
		return c
	})
}
