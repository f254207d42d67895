package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Amaranth-us/legal-advisor/pkg/api/handler"
	"github.com/Amaranth-us/legal-advisor/pkg/api/middleware"
	"github.com/Amaranth-us/legal-advisor/pkg/api/response"
)

// NewRouter assembles the HTTP surface. Recoverer keeps a panicking request
// from taking the process down with it.
func NewRouter(
	chatService handler.ChatService,
	sessionService handler.SessionService,
	allowedOrigins []string,
) http.Handler {
	chatHandler := handler.NewChat(chatService)
	historyHandler := handler.NewHistory(sessionService)

	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(allowedOrigins))

	r.Get("/", root)
	r.Post("/chat", chatHandler.Ask)
	r.Post("/chat/{sessionID}", chatHandler.Ask)
	r.Get("/chat-history", historyHandler.AllHistory)
	r.Get("/chat-history/{sessionID}", historyHandler.SessionHistory)
	r.Get("/sessions", historyHandler.Sessions)
	r.Get("/chat-session/{sessionID}", historyHandler.SessionStart)
	r.Get("/chat-sessions", historyHandler.SessionList)
	r.Get("/highest-session-id", historyHandler.HighestSessionID)

	return r
}

func root(w http.ResponseWriter, _ *http.Request) {
	writer := response.JSONResponseWriter{}
	writer.WriteSuccessResponse(w, map[string]string{"message": "Legal Advisor API is running."})
}
