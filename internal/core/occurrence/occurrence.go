// Package occurrence is the view model for flagged conversation events and
// the label tables used to present them
package occurrence

import (
	"strings"
	"time"
)

// Status is the lifecycle state of an occurrence
type Status string

// Known statuses
const (
	StatusOpen     Status = "aberto"
	StatusResolved Status = "resolvido"
)

// Valid reports whether s is one of the writable statuses
func (s Status) Valid() bool { return s == StatusOpen || s == StatusResolved }

// Channels as stored upstream
const (
	ChannelWhatsapp = "Whatsapp"
	ChannelEmail    = "email"
)

// Known squads
const (
	SquadEliteDoFluxo          = "Elite do Fluxo"
	SquadForcaTaticaFinanceira = "Força Tática Financeira"
)

// Squads lists the squads that get their own chart series
func Squads() []string { return []string{SquadEliteDoFluxo, SquadForcaTaticaFinanceira} }

// Message is one chat message snapshot attached to an occurrence
type Message struct {
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp"`
	Content   string `json:"content"`
}

// Occurrence is the coalesced view of a "new-occurrences" row.
// No field is ever nil on the wire
type Occurrence struct {
	ID             int64     `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	ChatID         string    `json:"chat_id"`
	ChatName       string    `json:"chat_name"`
	ClientName     string    `json:"client_name"`
	OccurrenceName string    `json:"occurrence_name"`
	Status         string    `json:"status"`
	Description    string    `json:"description"`
	Resolution     string    `json:"occurrence_resolution"`
	Keywords       string    `json:"key_words"`
	Messages       []Message `json:"messages"`
	Channel        string    `json:"channel"`
	GateKeeper     bool      `json:"gate_kepper"`
	Squad          string    `json:"squad"`
	Category       string    `json:"category"`
}

// KeywordList splits the comma separated keywords, dropping blanks
func (o Occurrence) KeywordList() []string {
	if o.Keywords == "" {
		return []string{}
	}
	parts := strings.Split(o.Keywords, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Legacy is a row of the old "occurrences" table
type Legacy struct {
	ID            int64
	CreatedAt     time.Time
	Justification *string
	Evidence      *string
	KeyWords      *string
	ChatType      *string
	ChatID        *string
	ChatName      *string
	Channel       *string
	Status        *string
	Category      *string
}

// FromLegacy maps an old-schema row onto the current view model.
// justification becomes description, evidence becomes client name and
// chat_type becomes squad
func FromLegacy(l Legacy) Occurrence {
	return Occurrence{
		ID:          l.ID,
		CreatedAt:   l.CreatedAt,
		ChatID:      Str(l.ChatID),
		ChatName:    Str(l.ChatName),
		ClientName:  Str(l.Evidence),
		Status:      Str(l.Status),
		Description: Str(l.Justification),
		Keywords:    Str(l.KeyWords),
		Messages:    []Message{},
		Channel:     Str(l.Channel),
		Squad:       Str(l.ChatType),
		Category:    Str(l.Category),
	}
}

// Str coalesces a nullable column to ""
func Str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Bool coalesces a nullable column to false
func Bool(p *bool) bool { return p != nil && *p }
