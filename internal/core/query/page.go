package query

import perr "bluebird/internal/platform/errors"

// Page size bounds
const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// Page is 1-based offset pagination
type Page struct {
	Number int `json:"page"`
	Size   int `json:"page_size"`
}

// NewPage clamps number and size into range
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

// ParsePage rejects out-of-range input instead of clamping it
func ParsePage(number, size int) (Page, error) {
	if number < 0 {
		return Page{}, perr.WithField(perr.InvalidArgf("page must be positive"), "page")
	}
	if size < 0 || size > MaxPageSize {
		return Page{}, perr.WithField(perr.InvalidArgf("page_size must be between 1 and %d", MaxPageSize), "page_size")
	}
	return NewPage(number, size), nil
}

// Offset is (page-1)*size
func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// Range is the inclusive [from, to] row window
func (p Page) Range() (from, to int) {
	from = p.Offset()
	return from, from + p.Size - 1
}

// TotalPages is max(1, ceil(total/size))
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Clamp keeps the page number inside [1, TotalPages(total)]
func (p Page) Clamp(total int) Page {
	if last := TotalPages(total, p.Size); p.Number > last {
		p.Number = last
	}
	if p.Number < 1 {
		p.Number = 1
	}
	return p
}
