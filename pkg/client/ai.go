package client

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

type AIService struct {
	client *Client
}

type Model struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
}

type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	Model          string    `json:"model"`
	CreatedAt      time.Time `json:"created_at"`
}

type ChatTurn struct {
	UserMessage      Message `json:"user_message"`
	AssistantMessage Message `json:"assistant_message"`
}

func (s *AIService) Models(ctx context.Context) ([]Model, error) {
	var models []Model
	err := s.client.get(ctx, "/ai/models", nil, &models)
	return models, err
}

func (s *AIService) ListConversations(ctx context.Context, page, limit int) ([]Conversation, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var convs []Conversation
	err := s.client.get(ctx, "/ai/conversations", query, &convs)
	return convs, err
}

func (s *AIService) CreateConversation(ctx context.Context, title, model string) (Conversation, error) {
	var conv Conversation
	err := s.client.post(ctx, "/ai/conversations", map[string]string{
		"title": title,
		"model": model,
	}, &conv)
	return conv, err
}

func (s *AIService) GetConversation(ctx context.Context, id string) (Conversation, error) {
	var conv Conversation
	err := s.client.get(ctx, "/ai/conversations/"+url.PathEscape(id), nil, &conv)
	return conv, err
}

func (s *AIService) RenameConversation(ctx context.Context, id, title string) error {
	return s.client.put(ctx, "/ai/conversations/"+url.PathEscape(id), map[string]string{
		"title": title,
	}, nil)
}

func (s *AIService) DeleteConversation(ctx context.Context, id string) error {
	return s.client.delete(ctx, "/ai/conversations/"+url.PathEscape(id))
}

func (s *AIService) ListMessages(ctx context.Context, conversationID string) ([]Message, error) {
	var msgs []Message
	err := s.client.get(ctx, "/ai/conversations/"+url.PathEscape(conversationID)+"/messages", nil, &msgs)
	return msgs, err
}

// SendMessage posts a user turn and returns both persisted messages once the
// model has replied.
func (s *AIService) SendMessage(ctx context.Context, conversationID, content, model string) (ChatTurn, error) {
	var turn ChatTurn
	err := s.client.post(ctx, "/ai/conversations/"+url.PathEscape(conversationID)+"/messages", map[string]string{
		"content": content,
		"model":   model,
	}, &turn)
	return turn, err
}
