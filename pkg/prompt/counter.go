package prompt

import "github.com/Amaranth-us/legal-advisor/pkg/domain"

const (
	// perMessageOverhead is what the model charges per message boundary.
	perMessageOverhead = 4
	// perRequestOverhead covers the end-of-sequence priming tokens.
	perRequestOverhead = 2
)

// Counter estimates the token cost of a message list for a named model.
// Deterministic for a given tokenizer, no side effects.
type Counter struct {
	tokenizer Tokenizer
	model     string
}

func NewCounter(tokenizer Tokenizer, model string) *Counter {
	return &Counter{tokenizer: tokenizer, model: model}
}

// Count returns the estimated token cost of sending messages. An empty list
// costs the fixed per-request overhead only.
func (c *Counter) Count(messages []domain.ChatMessage) int {
	total := perRequestOverhead
	for _, m := range messages {
		total += c.messageCost(m)
	}
	return total
}

func (c *Counter) messageCost(m domain.ChatMessage) int {
	return perMessageOverhead +
		len(c.tokenizer.Encode(c.model, m.Role)) +
		len(c.tokenizer.Encode(c.model, m.Content))
}
