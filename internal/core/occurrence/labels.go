package occurrence

import "strings"

// Tone is a presentation hint for status badges
type Tone string

// Tones
const (
	ToneWarning Tone = "warning"
	ToneInfo    Tone = "info"
	ToneSuccess Tone = "success"
	ToneNeutral Tone = "neutral"
)

// StatusLabel translates a stored status to its display label.
// Unknown values pass through unchanged
func StatusLabel(s string) string {
	switch s {
	case string(StatusOpen):
		return "Aberto"
	case string(StatusResolved):
		return "Resolvido"
	// legacy table values
	case "aberta":
		return "Pendente"
	case "urgente":
		return "Em Andamento"
	case "resolvida":
		return "Concluído"
	default:
		return s
	}
}

// StatusTone picks the badge tone for a stored status
func StatusTone(s string) Tone {
	switch s {
	case string(StatusOpen), "aberta":
		return ToneWarning
	case "urgente":
		return ToneInfo
	case string(StatusResolved), "resolvida":
		return ToneSuccess
	default:
		return ToneNeutral
	}
}

// ChannelLabel translates a channel or legacy chat type to its display label.
// Unknown values pass through unchanged
func ChannelLabel(s string) string {
	switch s {
	case ChannelWhatsapp:
		return "WhatsApp"
	case ChannelEmail:
		return "E-mail"
	case "group":
		return "Grupo"
	case "private":
		return "Privado"
	default:
		return s
	}
}

// CategoryLabel renders snake_case categories with spaces, or a dash when blank
func CategoryLabel(s string) string {
	if s = strings.ReplaceAll(s, "_", " "); s != "" {
		return s
	}
	return "—"
}
