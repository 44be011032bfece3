// Package modkit provides module wiring and core deps
package modkit

import (
	"time"

	"bluebird/internal/adapters/events"
	"bluebird/internal/modkit/repokit"
	"bluebird/internal/platform/bus"
	"bluebird/internal/platform/config"
	"bluebird/internal/platform/logger"
	"bluebird/internal/platform/metrics"
	"bluebird/internal/platform/store"
)

// Deps is what every module constructor receives. Only Cfg and Log are
// always set; the stores and Events may be nil
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse

	// Metrics is optional; every recorder is nil safe
	Metrics *metrics.Metrics

	// Events fans domain events out, nil means drop
	Events events.Emitter

	// Bus is the in-process side of Events, nil disables followers
	Bus *bus.Bus[events.Event]

	// Location is the business timezone for day buckets and presets
	Location *time.Location
}

// Emitter returns Events or a no-op emitter
func (d Deps) Emitter() events.Emitter {
	if d.Events == nil {
		return events.Nop{}
	}
	return d.Events
}

// Loc returns Location or UTC
func (d Deps) Loc() *time.Location {
	if d.Location == nil {
		return time.UTC
	}
	return d.Location
}
