package domain

// ChatMessage is a single role-tagged message in an outbound completion
// request. Messages are immutable once constructed; trimming produces a new
// message rather than mutating one in place.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	ChatMessageRoleSystem    = "system"
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
)
