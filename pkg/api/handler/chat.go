package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Amaranth-us/legal-advisor/pkg/api/response"
	"github.com/Amaranth-us/legal-advisor/pkg/domain"
)

type ChatService interface {
	Chat(ctx context.Context, sessionID, question string) (string, error)
}

type chatRequest struct {
	Question string `json:"question"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

type chat struct {
	service ChatService
	writer  response.JSONResponseWriter
}

func NewChat(service ChatService) *chat {
	return &chat{service: service}
}

// Ask serves POST /chat and POST /chat/{sessionID}. Without a session id the
// call is stateless; with one, both turns are persisted under it.
func (h *chat) Ask(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writer.WriteDomainError(w, domain.ValidationError(fmt.Errorf("decoding request body: %w", err)))
		return
	}

	sessionID := chi.URLParam(r, "sessionID")

	answer, err := h.service.Chat(r.Context(), sessionID, req.Question)
	if err != nil {
		h.writer.WriteDomainError(w, err)
		return
	}

	h.writer.WriteSuccessResponse(w, chatResponse{Answer: answer})
}
