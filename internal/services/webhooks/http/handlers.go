// Package http exposes the webhook endpoints. Replies use the
// {success, error} shape callers expect, not the API envelope
package http

import (
	stdhttp "net/http"

	"bluebird/internal/modkit/httpkit"
	perr "bluebird/internal/platform/errors"
	"bluebird/internal/platform/logger"
	"bluebird/internal/platform/net/http/bind"
	"bluebird/internal/services/webhooks/domain"
)

// MaxBody caps webhook payloads
const MaxBody = 1 << 20

var jsonOpts = bind.JSONOptions{MaxBytes: MaxBody}

// Register mounts the webhook endpoints
func Register(r httpkit.Router, relay domain.Relay) {
	h := &handlers{relay: relay}

	r.Post("/completion", h.completion)
	r.Get("/completion", methodNotAllowed(domain.MsgCompletionGet))

	r.Post("/supabase", h.tableEvent)
	r.Get("/supabase", methodNotAllowed(domain.MsgSupabaseGet))
}

type handlers struct{ relay domain.Relay }

// swagger:route POST /api/webhook/completion Webhooks webhookCompletion
// @Summary Analysis engine completion callback
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param payload body domain.Completion true "Document id and final status"
// @Success 200 {object} domain.Reply "accepted"
// @Failure 400 {object} domain.Reply "missing or invalid fields"
// @Failure 500 {object} domain.Reply "malformed body"
// @Router /api/webhook/completion [post]
func (h *handlers) completion(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	in, err := bind.ParseJSON[domain.Completion](r, jsonOpts)
	if err == nil {
		var out domain.Reply
		if out, err = h.relay.Completion(r.Context(), in); err == nil {
			httpkit.WriteJSON(w, stdhttp.StatusOK, out)
			return
		}
	}
	fail(w, r, err)
}

// swagger:route POST /api/webhook/supabase Webhooks webhookSupabase
// @Summary Database change notification
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param payload body domain.TableEvent true "Change"
// @Success 200 {object} domain.Reply "received"
// @Failure 400 {object} domain.Reply "missing type or table"
// @Router /api/webhook/supabase [post]
func (h *handlers) tableEvent(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	in, err := bind.ParseJSON[domain.TableEvent](r, jsonOpts)
	if err == nil {
		var out domain.Reply
		if out, err = h.relay.TableEvent(r.Context(), in); err == nil {
			httpkit.WriteJSON(w, stdhttp.StatusOK, out)
			return
		}
	}
	fail(w, r, err)
}

// fail answers 400 for validation failures and 500 for everything else,
// malformed JSON included
func fail(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	if perr.IsCode(err, perr.ErrorCodeValidation) {
		msg := err.Error()
		if e, ok := perr.As(err); ok {
			msg = e.ToWire().Message
		}
		httpkit.WriteJSON(w, stdhttp.StatusBadRequest, domain.Reply{Success: false, Error: msg})
		return
	}
	logger.C(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("webhook failed")
	httpkit.WriteJSON(w, stdhttp.StatusInternalServerError, domain.Reply{Success: false, Error: domain.MsgInternal})
}

func methodNotAllowed(msg string) func(stdhttp.ResponseWriter, *stdhttp.Request) {
	return func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		w.Header().Set("Allow", stdhttp.MethodPost)
		httpkit.WriteJSON(w, stdhttp.StatusMethodNotAllowed, map[string]string{"message": msg})
	}
}
