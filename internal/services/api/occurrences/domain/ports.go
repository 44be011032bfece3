package domain

import (
	"context"

	"bluebird/internal/core/occurrence"
)

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	List(ctx context.Context, in ListInput) (ListResult, error)
	Get(ctx context.Context, id int64) (occurrence.Occurrence, error)
	UpdateStatus(ctx context.Context, id int64, in StatusInput) (occurrence.Occurrence, error)
	UpdateDescription(ctx context.Context, id int64, in TextInput) (occurrence.Occurrence, error)
	UpdateResolution(ctx context.Context, id int64, in TextInput) (occurrence.Occurrence, error)
	Snapshot(ctx context.Context, in SnapshotInput) (SnapshotResult, error)
}

// ViewPort is the per-user listing state keyed by session user id
type ViewPort interface {
	View(ctx context.Context, user string) ViewState
	SetFilter(ctx context.Context, user string, in FilterInput) (ViewState, error)
	ClearFilters(ctx context.Context, user string) ViewState
	ToggleSort(ctx context.Context, user string, in SortInput) (ViewState, error)
	SetPage(ctx context.Context, user string, in PageInput) ViewState
	SetRange(ctx context.Context, user string, in RangeInput) (ViewState, error)
	Refresh(ctx context.Context, user string) ViewState
	ResizeStart(user string, in ResizeInput) ViewState
	ResizeMove(user string, in ResizeInput) ViewState
	ResizeEnd(user string) ViewState
	Drop(user string)
}
