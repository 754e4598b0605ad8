package domain

import "encoding/json"

// Chat roles accepted by OpenAI-compatible completion APIs.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ContactFormSentinel is the literal marker the model emits when the chat
// widget should render the contact form. The relay never interprets it.
const ContactFormSentinel = "[SHOW_CONTACT_FORM]"

// ChatMessage is the provider-agnostic chat message shape.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the outbound chat-completion payload. Messages are kept
// raw so caller-supplied entries reach the provider byte for byte.
type CompletionRequest struct {
	Model       string            `json:"model"`
	Messages    []json.RawMessage `json:"messages"`
	Temperature float64           `json:"temperature"`
	MaxTokens   int               `json:"max_tokens"`
}
