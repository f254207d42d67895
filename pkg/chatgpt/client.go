package chatgpt

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/Amaranth-us/legal-advisor/pkg/domain"
	"github.com/Amaranth-us/legal-advisor/pkg/retry"
)

// NoResponseFallback is returned when the upstream answers with a well-formed
// response that carries no content. Downstream code never sees an empty
// answer.
const NoResponseFallback = "no response from model"

type Config struct {
	Token             string
	BaseURL           string // override for tests, empty means api.openai.com
	Model             string
	Temperature       float32
	MaxResponseTokens int
	Retry             retry.Policy
}

type client struct {
	api               *openai.Client
	model             string
	temperature       float32
	maxResponseTokens int
	policy            retry.Policy
}

func NewClient(cfg Config) (*client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("token is empty")
	}
	if err := cfg.Retry.Validate(); err != nil {
		return nil, fmt.Errorf("validating retry policy: %w", err)
	}

	apiCfg := openai.DefaultConfig(cfg.Token)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	return &client{
		api:               openai.NewClientWithConfig(apiCfg),
		model:             cfg.Model,
		temperature:       cfg.Temperature,
		maxResponseTokens: cfg.MaxResponseTokens,
		policy:            cfg.Retry,
	}, nil
}

// Complete sends messages to the chat completion endpoint and returns the
// first choice's content. Transient upstream failures are retried per the
// configured policy; anything else propagates after the first attempt.
func (c *client) Complete(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    toAPIMessages(messages),
		MaxTokens:   c.maxResponseTokens,
		Temperature: c.temperature,
	}

	resp, err := retry.Do(ctx, c.policy, func(ctx context.Context) (openai.ChatCompletionResponse, error) {
		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err != nil {
			return resp, classify(err)
		}
		return resp, nil
	}, domain.IsTransient)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return NoResponseFallback, nil
	}

	return resp.Choices[0].Message.Content, nil
}

func toAPIMessages(messages []domain.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		out[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	return out
}

// classify tags an upstream failure so the retry combinator and the route
// handlers can branch on its kind. Rate limiting and server-side errors are
// transient; auth, config, and malformed-request failures are fatal. The
// original error stays reachable through errors.As.
func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, err)
	}

	// Transport-level failure without an HTTP status: treat as an outage.
	return domain.TransientError(err)
}

func classifyStatus(status int, err error) error {
	if status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
		return domain.TransientError(err)
	}
	return domain.FatalError(err)
}
