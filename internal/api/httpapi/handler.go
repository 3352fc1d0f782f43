// Package httpapi exposes the conversation over a small JSON HTTP surface.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/stavik/jambot/internal/app/agent"
	"github.com/stavik/jambot/internal/app/session"
)

// Handler serves the session endpoints.
type Handler struct {
	registry *session.Registry
}

// New creates a handler over a session registry.
func New(registry *session.Registry) *Handler {
	return &Handler{registry: registry}
}

// Mux returns the routed handler.
//
//	POST /v1/sessions                   start a conversation
//	POST /v1/sessions/{id}/messages     send one utterance
//	GET  /healthz                       liveness probe
func (h *Handler) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/sessions", h.createSession)
	mux.HandleFunc("POST /v1/sessions/{id}/messages", h.postMessage)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

type createSessionResponse struct {
	SessionID string         `json:"session_id"`
	Response  agent.Response `json:"response"`
}

func (h *Handler) createSession(w http.ResponseWriter, _ *http.Request) {
	s, welcome := h.registry.Create()
	writeJSON(w, http.StatusCreated, createSessionResponse{
		SessionID: s.ID,
		Response:  welcome,
	})
}

type messageRequest struct {
	Text string `json:"text"`
}

func (h *Handler) postMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.registry.Handle(r.Context(), r.PathValue("id"), req.Text)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		zlog.Error().Err(err).Msg("message handling failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zlog.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
