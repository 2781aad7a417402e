package models

import "time"

type Conversation struct {
	ID        string
	UserID    string
	Title     string
	Model     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
	MessageRoleSystem    MessageRole = "system"
)

type Message struct {
	ID             string
	ConversationID string
	Role           MessageRole
	Content        string
	Model          string
	CreatedAt      time.Time
}
