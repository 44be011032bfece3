// Package domain holds the chart endpoint inputs and results
package domain

import (
	"time"

	"bluebird/internal/core/charts"
)

// WindowInput selects the chart window. A preset wins over explicit
// bounds; nothing at all means the last 7 days
type WindowInput struct {
	From   *time.Time `json:"from,omitempty"`
	To     *time.Time `json:"to,omitempty"`
	Preset string     `json:"preset,omitempty" validate:"omitempty,oneof=today yesterday last7Days last30Days last90Days" example:"last7Days"`
}

// Window is the resolved, inclusive query window
type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// SeriesResult is the chart payload for one window
type SeriesResult struct {
	Window Window `json:"window"`
	Count  int    `json:"count"`
	charts.Series
}

// MetricsResult is the KPI card payload for one window
type MetricsResult struct {
	Window Window `json:"window"`
	charts.KPIs
}
