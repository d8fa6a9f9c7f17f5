// lrigschat/types/chat.go
package types

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in a conversation. ImageURI, when set, is a
// base64 data URI held only for the duration of the session.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	ImageURI  string    `json:"image_uri,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is one chat thread. Messages are append-only; insertion
// order is display order.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Content        string `json:"content"`
	Model          string `json:"model,omitempty"`
	MaxTokens      int    `json:"max_tokens,omitempty"`

	// Set by the HTTP layer after image validation, never decoded
	// straight from a client body.
	ImageURI string `json:"-"`
}

type ChatResponse struct {
	ConversationID string  `json:"conversation_id"`
	Message        Message `json:"message"`
}

// ConversationSummary is what the sidebar renders per thread.
type ConversationSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	Active       bool      `json:"active"`
}

type ConversationList struct {
	Conversations []ConversationSummary `json:"conversations"`
	ActiveID      string                `json:"active_id,omitempty"`
}

type RenameRequest struct {
	Title string `json:"title"`
}

type ModelCatalog struct {
	Models  []string `json:"models"`
	Default string   `json:"default"`
}

// APIError is the JSON error body rendered inline by the chat view.
type APIError struct {
	Kind    string `json:"kind"`
	Message string `json:"error"`
}
