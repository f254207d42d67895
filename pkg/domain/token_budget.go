package domain

import "fmt"

// TokenBudget is the process-wide token allowance for one completion call,
// fixed at startup. PromptTokens is derived, not stored.
type TokenBudget struct {
	MaxTotalTokens    int
	MaxResponseTokens int
}

// PromptTokens returns the allowance left for outbound request content after
// reserving room for the model's response.
func (b TokenBudget) PromptTokens() int {
	return b.MaxTotalTokens - b.MaxResponseTokens
}

func (b TokenBudget) Validate() error {
	if b.PromptTokens() <= 0 {
		return fmt.Errorf("prompt budget must be positive: total %d, response %d", b.MaxTotalTokens, b.MaxResponseTokens)
	}
	return nil
}
