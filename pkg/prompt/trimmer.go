package prompt

import "github.com/Amaranth-us/legal-advisor/pkg/domain"

// Trimmer fits a message list into a prompt token budget. System and prior
// context messages are load-bearing and are never dropped; only the newest
// message's content is truncated, keeping its prefix.
type Trimmer struct {
	counter   *Counter
	tokenizer Tokenizer
	model     string
}

func NewTrimmer(counter *Counter, tokenizer Tokenizer, model string) *Trimmer {
	return &Trimmer{counter: counter, tokenizer: tokenizer, model: model}
}

// Trim returns messages guaranteed to cost at most maxPromptTokens. The
// within-budget case returns the input slice untouched. On overflow the
// result is a copy whose last message carries truncated content.
//
// If the earlier messages alone exceed the budget, the last message comes
// back with empty content. That is a degraded state the caller must detect
// and reject, not an error from Trim itself.
func (t *Trimmer) Trim(messages []domain.ChatMessage, maxPromptTokens int) []domain.ChatMessage {
	if len(messages) == 0 || t.counter.Count(messages) <= maxPromptTokens {
		return messages
	}

	last := len(messages) - 1
	used := t.counter.Count(messages[:last])
	budget := maxPromptTokens - used - perMessageOverhead - len(t.tokenizer.Encode(t.model, messages[last].Role))

	var content string
	if budget > 0 {
		tokens := t.tokenizer.Encode(t.model, messages[last].Content)
		if budget < len(tokens) {
			tokens = tokens[:budget]
		}
		content = t.tokenizer.Decode(t.model, tokens)
	}

	trimmed := make([]domain.ChatMessage, len(messages))
	copy(trimmed, messages)
	trimmed[last] = domain.ChatMessage{Role: messages[last].Role, Content: content}
	return trimmed
}
