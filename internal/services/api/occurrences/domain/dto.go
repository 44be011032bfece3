// Package domain holds DTOs for the occurrences http and service contracts
package domain

import (
	"time"

	"bluebird/internal/core/colwidth"
	"bluebird/internal/core/daterange"
	"bluebird/internal/core/filter"
	"bluebird/internal/core/occurrence"
	"bluebird/internal/core/query"
)

// ListInput is one paginated query against the occurrence table.
// Equality filters set to "all" or left blank are ignored
type ListInput struct {
	Search        string     `json:"search,omitempty" example:"boleto"`
	Status        string     `json:"status,omitempty" example:"aberto"`
	Category      string     `json:"category,omitempty" example:"financeiro"`
	Squad         string     `json:"squad,omitempty" example:"Elite do Fluxo"`
	Page          int        `json:"page,omitempty" example:"1"`
	PageSize      int        `json:"page_size,omitempty" example:"50"`
	SortField     string     `json:"sort_field,omitempty" example:"created_at"`
	SortDirection string     `json:"sort_direction,omitempty" example:"desc"`
	From          *time.Time `json:"from,omitempty"`
	To            *time.Time `json:"to,omitempty"`
}

// ListResult is one page plus the total row count for the predicate
type ListResult struct {
	Items      []occurrence.Occurrence `json:"items"`
	Total      int                     `json:"total"`
	Page       int                     `json:"page"`
	PageSize   int                     `json:"page_size"`
	TotalPages int                     `json:"total_pages"`
}

// StatusInput changes the lifecycle status of one occurrence
type StatusInput struct {
	Status string `json:"status" validate:"required,oneof=aberto resolvido" example:"resolvido"`
	// IfUnmodifiedSince rejects the write when the row changed after this instant
	IfUnmodifiedSince *time.Time `json:"if_unmodified_since,omitempty"`
}

// TextInput replaces the description or the resolution text
type TextInput struct {
	Text              string     `json:"text" validate:"max=20000" example:"Cliente orientado a reemitir o boleto"`
	IfUnmodifiedSince *time.Time `json:"if_unmodified_since,omitempty"`
}

// SnapshotInput loads a whole window and filters it in memory
type SnapshotInput struct {
	From   *time.Time   `json:"from,omitempty"`
	To     *time.Time   `json:"to,omitempty"`
	Filter filter.State `json:"filter"`
}

// SnapshotResult is the in-memory filtered window
type SnapshotResult struct {
	Items            []occurrence.Occurrence `json:"items"`
	TotalCount       int                     `json:"total_count"`
	FilteredCount    int                     `json:"filtered_count"`
	HasActiveFilters bool                    `json:"has_active_filters"`
	Truncated        bool                    `json:"truncated"`
}

// View inputs

// FilterInput sets one filter of the signed-in user's view
type FilterInput struct {
	Key   string `json:"key" validate:"required,oneof=search status category chatType squad" example:"status"`
	Value string `json:"value" validate:"max=200" example:"aberto"`
}

// SortInput toggles the sort column
type SortInput struct {
	Field string `json:"field" validate:"required" example:"client_name"`
}

// PageInput moves to a page; out of range numbers are clamped
type PageInput struct {
	Page int `json:"page" validate:"min=1" example:"2"`
}

// RangeInput sets an explicit window or a named preset
type RangeInput struct {
	From   *time.Time `json:"from,omitempty"`
	To     *time.Time `json:"to,omitempty"`
	Preset string     `json:"preset,omitempty" validate:"omitempty,oneof=today yesterday last7Days last30Days last90Days" example:"last30Days"`
}

// ResizeInput drives the column resize drag
type ResizeInput struct {
	Column string `json:"column,omitempty" example:"description"`
	X      int    `json:"x" example:"640"`
}

// ViewState is the per-user listing state plus the last committed result.
// A failed fetch leaves Error set with empty Items and a zero Total
type ViewState struct {
	Filter           filter.State            `json:"filter"`
	HasActiveFilters bool                    `json:"has_active_filters"`
	Sort             query.Sort              `json:"sort"`
	Page             query.Page              `json:"page"`
	Range            daterange.Range         `json:"range"`
	Preset           string                  `json:"preset,omitempty"`
	Items            []occurrence.Occurrence `json:"items"`
	Total            int                     `json:"total"`
	TotalPages       int                     `json:"total_pages"`
	Loading          bool                    `json:"loading"`
	Error            string                  `json:"error,omitempty"`
	Columns          colwidth.Snapshot       `json:"columns"`
	Generation       uint64                  `json:"generation"`
}
