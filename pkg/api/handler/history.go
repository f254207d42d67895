package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Amaranth-us/legal-advisor/pkg/api/response"
	"github.com/Amaranth-us/legal-advisor/pkg/domain"
)

type SessionService interface {
	History(ctx context.Context, sessionID string, offset, limit int) ([]domain.SessionMessage, error)
	AllHistory(ctx context.Context, skip, limit int) ([]domain.SessionMessage, error)
	SessionIDs(ctx context.Context) ([]string, error)
	SessionStart(ctx context.Context, sessionID string) (domain.SessionStart, error)
	Sessions(ctx context.Context) ([]domain.SessionInfo, error)
	HighestSessionID(ctx context.Context) (int64, error)
}

type history struct {
	service SessionService
	writer  response.JSONResponseWriter
}

func NewHistory(service SessionService) *history {
	return &history{service: service}
}

// SessionHistory serves GET /chat-history/{sessionID}.
func (h *history) SessionHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 0)

	messages, err := h.service.History(r.Context(), sessionID, skip, limit)
	if err != nil {
		h.writer.WriteDomainError(w, err)
		return
	}
	if messages == nil {
		messages = []domain.SessionMessage{}
	}

	h.writer.WriteSuccessResponse(w, messages)
}

// AllHistory serves GET /chat-history with skip/limit paging across all
// sessions.
func (h *history) AllHistory(w http.ResponseWriter, r *http.Request) {
	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 0)

	messages, err := h.service.AllHistory(r.Context(), skip, limit)
	if err != nil {
		h.writer.WriteDomainError(w, err)
		return
	}

	h.writer.WriteSuccessResponse(w, messages)
}

// Sessions serves GET /sessions.
func (h *history) Sessions(w http.ResponseWriter, r *http.Request) {
	ids, err := h.service.SessionIDs(r.Context())
	if err != nil {
		h.writer.WriteDomainError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}

	h.writer.WriteSuccessResponse(w, ids)
}

// SessionStart serves GET /chat-session/{sessionID}.
func (h *history) SessionStart(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	start, err := h.service.SessionStart(r.Context(), sessionID)
	if err != nil {
		h.writer.WriteDomainError(w, err)
		return
	}

	h.writer.WriteSuccessResponse(w, start)
}

// SessionList serves GET /chat-sessions.
func (h *history) SessionList(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.Sessions(r.Context())
	if err != nil {
		h.writer.WriteDomainError(w, err)
		return
	}
	if sessions == nil {
		sessions = []domain.SessionInfo{}
	}

	h.writer.WriteSuccessResponse(w, sessions)
}

// HighestSessionID serves GET /highest-session-id as a bare integer for the
// client-side "allocate next session id" convention.
func (h *history) HighestSessionID(w http.ResponseWriter, r *http.Request) {
	max, err := h.service.HighestSessionID(r.Context())
	if err != nil {
		h.writer.WriteDomainError(w, err)
		return
	}

	h.writer.WriteSuccessResponse(w, max)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
