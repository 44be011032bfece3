// Package domain holds the document types, inputs and ports
package domain

import "time"

// Origin types
const (
	OriginTranscript = "TRANSCRIPT"
	OriginMedia      = "MEDIA"
	OriginFile       = "FILE"
)

// Analysis states
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusError     = "error"
)

// Document is one analysis request tracked in the documents table
type Document struct {
	ID           int64     `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Name         string    `json:"document_name"`
	Content      string    `json:"document_content"`
	Transcript   string    `json:"transcript"`
	OriginType   string    `json:"origin_type"`
	OriginStatus string    `json:"origin_status"`
}

// ChangeKind is the realtime change type
type ChangeKind string

// Change kinds
const (
	ChangeUpsert ChangeKind = "upsert"
	ChangeDelete ChangeKind = "delete"
)

// Change is one realtime row change. Delete only reads Document.ID
type Change struct {
	Kind     ChangeKind `json:"kind"`
	Document Document   `json:"document"`
}
