// Package domain holds the webhook payloads and replies
package domain

import (
	"context"

	"bluebird/internal/adapters/n8n"
)

// Completion states the analysis engine reports
const (
	StatusCompleted = "completed"
	StatusError     = "error"
)

// Reply messages
const (
	MsgCompletionOK     = "Completion webhook recebido com sucesso"
	MsgMissingFields    = "ID e status são obrigatórios"
	MsgInvalidStatus    = "Status inválido"
	MsgInternal         = "Internal server error"
	MsgDocumentReceived = "Document received"
	MsgNotProcessed     = "Webhook received but not processed"
	MsgCompletionGet    = "Webhook de completion - apenas POST permitido"
	MsgSupabaseGet      = "Webhook endpoint - apenas POST permitido"
)

// Completion is posted by the analysis engine when a document finishes
type Completion struct {
	ID     n8n.DocumentID `json:"id"`
	Status string         `json:"status"`
}

// TableEvent is a database change notification
type TableEvent struct {
	Type      string         `json:"type" validate:"required"`
	Table     string         `json:"table" validate:"required"`
	Schema    string         `json:"schema,omitempty"`
	Record    map[string]any `json:"record" validate:"required"`
	OldRecord map[string]any `json:"old_record,omitempty"`
}

// Reply is the body every webhook answers with
type Reply struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
	DocumentID any    `json:"documentId,omitempty"`
	Status     string `json:"status,omitempty"`
}

// Relay is the webhook service port
type Relay interface {
	Completion(ctx context.Context, in Completion) (Reply, error)
	TableEvent(ctx context.Context, in TableEvent) (Reply, error)
}
