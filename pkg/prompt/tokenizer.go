package prompt

// Tokenizer turns text into a token sequence and back for a named model.
// Token counting and trimming are written against this interface so an exact
// model tokenizer can be dropped in without touching either.
type Tokenizer interface {
	Encode(model, text string) []string
	Decode(model string, tokens []string) string
}

// charsPerToken is the usual English-text approximation for GPT-family
// tokenizers. Overestimates rarely, which only makes trimming stricter.
const charsPerToken = 4

// HeuristicTokenizer approximates a BPE tokenizer by cutting text into
// fixed-size rune chunks. It round-trips exactly: decoding the encoded
// sequence, or any prefix of it, yields the corresponding text prefix.
type HeuristicTokenizer struct{}

// Encode implements Tokenizer.
func (HeuristicTokenizer) Encode(_, text string) []string {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	tokens := make([]string, 0, (len(runes)+charsPerToken-1)/charsPerToken)
	for len(runes) > 0 {
		n := charsPerToken
		if n > len(runes) {
			n = len(runes)
		}
		tokens = append(tokens, string(runes[:n]))
		runes = runes[n:]
	}
	return tokens
}

// Decode implements Tokenizer.
func (HeuristicTokenizer) Decode(_ string, tokens []string) string {
	var b []byte
	for _, t := range tokens {
		b = append(b, t...)
	}
	return string(b)
}
