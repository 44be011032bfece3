// Package service turns inbound webhooks into domain events
package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"bluebird/internal/adapters/events"
	perr "bluebird/internal/platform/errors"
	"bluebird/internal/platform/logger"
	"bluebird/internal/platform/metrics"
	"bluebird/internal/services/webhooks/domain"
)

// DocumentsTable is the table whose inserts are relayed
const DocumentsTable = "documents"

// Svc implements domain.Relay
type Svc struct {
	events  events.Emitter
	metrics *metrics.Metrics
}

// New constructs the relay; both arguments may be nil
func New(e events.Emitter, m *metrics.Metrics) *Svc {
	if e == nil {
		e = events.Nop{}
	}
	return &Svc{events: e, metrics: m}
}

// Completion validates the engine callback and publishes the new status
func (s *Svc) Completion(ctx context.Context, in domain.Completion) (domain.Reply, error) {
	status := strings.TrimSpace(in.Status)
	if in.ID == 0 || status == "" {
		s.metrics.WebhookEvent("completion", "invalid")
		return domain.Reply{}, perr.Validationf(domain.MsgMissingFields)
	}
	if status != domain.StatusCompleted && status != domain.StatusError {
		s.metrics.WebhookEvent("completion", "invalid")
		return domain.Reply{}, perr.WithField(perr.Validationf(domain.MsgInvalidStatus), "status")
	}

	id := int64(in.ID)
	s.events.Emit(ctx, events.DocumentStatus, events.DocumentRef{ID: id, Status: status})
	s.metrics.WebhookEvent("completion", "ok")
	logger.C(ctx).Info().Int64("document_id", id).Str("status", status).Msg("completion webhook")

	return domain.Reply{Success: true, Message: domain.MsgCompletionOK, DocumentID: id, Status: status}, nil
}

// TableEvent relays document inserts and acknowledges everything else
func (s *Svc) TableEvent(ctx context.Context, in domain.TableEvent) (domain.Reply, error) {
	if !strings.EqualFold(in.Type, "INSERT") || in.Table != DocumentsTable {
		s.metrics.WebhookEvent("supabase", "ignored")
		return domain.Reply{Success: true, Message: domain.MsgNotProcessed}, nil
	}

	raw := in.Record["id"]
	s.events.Emit(ctx, events.DocumentInserted, events.DocumentRef{ID: recordID(raw)})
	s.metrics.WebhookEvent("supabase", "ok")
	logger.C(ctx).Info().Interface("document_id", raw).Msg("document insert webhook")

	return domain.Reply{Success: true, Message: domain.MsgDocumentReceived, DocumentID: raw}, nil
}

// recordID reads a numeric id from a decoded JSON record, 0 when absent
func recordID(v any) int64 {
	switch id := v.(type) {
	case float64:
		return int64(id)
	case json.Number:
		n, _ := id.Int64()
		return n
	case string:
		n, _ := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		return n
	}
	return 0
}
