// Package events publishes domain events to NATS subjects and to the
// in-process bus
package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"bluebird/internal/platform/bus"
	"bluebird/internal/platform/logger"
	"bluebird/internal/platform/metrics"
	"bluebird/internal/platform/store"

	"github.com/google/uuid"
)

// DefaultPrefix is prepended to every subject
const DefaultPrefix = "bluebird"

// Event types
const (
	DocumentStatus    = "documents.status"
	DocumentInserted  = "documents.inserted"
	DocumentSubmitted = "documents.submitted"
	FeedbackSent      = "occurrences.feedback"
	OccurrenceUpdated = "occurrences.updated"
	SessionSignedIn   = "auth.signed_in"
	SessionSignedOut  = "auth.signed_out"
	SessionExpired    = "auth.expired"
)

// Event is the wire envelope
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// DocumentRef is the payload of every documents.* event
type DocumentRef struct {
	ID     int64  `json:"id"`
	Status string `json:"status,omitempty"`
}

// Emitter is what services depend on
type Emitter interface {
	Emit(ctx context.Context, typ string, data any) Event
}

// Publisher fans events out; both sinks are optional
type Publisher struct {
	nats    store.Publisher
	local   *bus.Bus[Event]
	prefix  string
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option customizes a Publisher
type Option func(*Publisher)

// WithBus also delivers every event to an in-process bus
func WithBus(b *bus.Bus[Event]) Option { return func(p *Publisher) { p.local = b } }

// WithMetrics counts publish failures
func WithMetrics(m *metrics.Metrics) Option { return func(p *Publisher) { p.metrics = m } }

// WithPrefix overrides DefaultPrefix
func WithPrefix(prefix string) Option {
	return func(p *Publisher) {
		if s := strings.Trim(strings.TrimSpace(prefix), "."); s != "" {
			p.prefix = s
		}
	}
}

// New builds a Publisher. A nil nats seam publishes locally only
func New(nats store.Publisher, opts ...Option) *Publisher {
	p := &Publisher{nats: nats, prefix: DefaultPrefix, now: time.Now}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Subject returns the NATS subject for typ
func (p *Publisher) Subject(typ string) string { return p.prefix + "." + typ }

// Emit stamps and publishes an event. Failures are logged and counted,
// never returned
func (p *Publisher) Emit(ctx context.Context, typ string, data any) Event {
	if p == nil {
		return Nop{}.Emit(ctx, typ, data)
	}
	ev := Event{ID: uuid.New(), Type: typ, OccurredAt: p.now().UTC(), Data: data}
	if p.local != nil {
		p.local.Publish(ev)
	}
	if p.nats == nil {
		return ev
	}

	subject := p.Subject(typ)
	b, err := json.Marshal(ev)
	if err == nil {
		err = p.nats.Publish(subject, b)
	}
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("subject", subject).Str("event_id", ev.ID.String()).Msg("event publish failed")
		p.metrics.PublishFailed(subject)
	}
	return ev
}

// Nop drops every event
type Nop struct{}

// Emit implements Emitter
func (Nop) Emit(_ context.Context, typ string, data any) Event {
	return Event{ID: uuid.New(), Type: typ, OccurredAt: time.Now().UTC(), Data: data}
}
