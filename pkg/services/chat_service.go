package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Amaranth-us/legal-advisor/pkg/domain"
	"github.com/Amaranth-us/legal-advisor/pkg/logger"
)

// SystemPrompt is the fixed instruction prepended to every completion
// request.
const SystemPrompt = "Act as a professional legal advisor. Provide general legal " +
	"information only. Do not give specific legal advice or act as a lawyer. " +
	"Analyze the documents provided and identify any potential liability and the parties involved. " +
	"If the document discusses employment agreements, summarize the sections related to termination and severance pay."

type CompletionClient interface {
	Complete(ctx context.Context, messages []domain.ChatMessage) (string, error)
}

type PromptTrimmer interface {
	Trim(messages []domain.ChatMessage, maxPromptTokens int) []domain.ChatMessage
}

type SessionHistoryAppender interface {
	Append(ctx context.Context, sessionID, role, content string) (domain.SessionMessage, error)
}

// chatService runs one chat turn: build the message list, trim it to the
// prompt budget, call the completion client, then record both sides of the
// turn under the session. Request-scoped; safe for concurrent use.
type chatService struct {
	completer CompletionClient
	trimmer   PromptTrimmer
	history   SessionHistoryAppender
	budget    domain.TokenBudget
}

func NewChatService(
	completer CompletionClient,
	trimmer PromptTrimmer,
	history SessionHistoryAppender,
	budget domain.TokenBudget,
) *chatService {
	return &chatService{
		completer: completer,
		trimmer:   trimmer,
		history:   history,
		budget:    budget,
	}
}

// Chat answers question and, when sessionID is non-empty, appends the user
// and assistant turns to the session transcript in that order. With an empty
// sessionID the call is stateless.
func (s *chatService) Chat(ctx context.Context, sessionID, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", domain.ValidationError(fmt.Errorf("question is empty"))
	}

	messages := []domain.ChatMessage{
		{Role: domain.ChatMessageRoleSystem, Content: SystemPrompt},
		{Role: domain.ChatMessageRoleUser, Content: question},
	}

	messages = s.trimmer.Trim(messages, s.budget.PromptTokens())

	userTurn := messages[len(messages)-1]
	if userTurn.Content == "" {
		// Nothing of the question survived trimming. Refuse rather than
		// send an empty user turn upstream.
		return "", domain.ValidationError(fmt.Errorf("question does not fit the prompt budget of %d tokens", s.budget.PromptTokens()))
	}

	answer, err := s.completer.Complete(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("completing chat: %w", err)
	}
	answer = strings.TrimSpace(answer)

	if sessionID != "" {
		// persistence must survive the caller disconnecting mid-request
		persistCtx := context.WithoutCancel(ctx)

		if _, err := s.history.Append(persistCtx, sessionID, domain.ChatMessageRoleUser, userTurn.Content); err != nil {
			return "", fmt.Errorf("appending user message: %w", err)
		}

		if _, err := s.history.Append(persistCtx, sessionID, domain.ChatMessageRoleAssistant, answer); err != nil {
			// the answer still reaches the caller; the transcript keeps the user turn
			slog.ErrorContext(ctx, "appending assistant message", "sessionID", sessionID, logger.Err(err))
		}
	}

	return answer, nil
}
