package domain

import "context"

// Message is one entry in the ordered list handed to the chat model.
type Message struct {
	Role    string
	Content string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// LLMClient defines the capability to send an ordered message list to a
// chat model and receive the generated text.
type LLMClient interface {
	Generate(ctx context.Context, messages []Message, maxTokens int) (string, error)
}
