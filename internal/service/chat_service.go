package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ylbabygo/xuekework/internal/ai"
	"github.com/ylbabygo/xuekework/internal/config"
	"github.com/ylbabygo/xuekework/internal/ids"
	"github.com/ylbabygo/xuekework/internal/models"
	"github.com/ylbabygo/xuekework/internal/repository"
)

const modelListCacheKey = "ai:models"

// historyWindow bounds how much conversation history is replayed to the
// provider on each turn.
const historyWindow = 20

type ChatService struct {
	conversations *repository.ConversationRepository
	messages      *repository.MessageRepository
	registry      *ai.Registry
	cache         *redis.Client
	cfg           *config.AppConfig
	log           zerolog.Logger
}

func NewChatService(
	conversations *repository.ConversationRepository,
	messages *repository.MessageRepository,
	registry *ai.Registry,
	cache *redis.Client,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *ChatService {
	return &ChatService{
		conversations: conversations,
		messages:      messages,
		registry:      registry,
		cache:         cache,
		cfg:           cfg,
		log:           log,
	}
}

// Models lists every configured model, cached in Redis because the set only
// changes on redeploy.
func (s *ChatService) Models(ctx context.Context) []ai.ModelInfo {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, modelListCacheKey).Bytes(); err == nil {
			var cached []ai.ModelInfo
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached
			}
		}
	}

	infos := s.registry.Models()

	if s.cache != nil {
		if raw, err := json.Marshal(infos); err == nil {
			ttl := s.cfg.AI.ModelCacheTTL
			if ttl == 0 {
				ttl = 5 * time.Minute
			}
			if err := s.cache.Set(ctx, modelListCacheKey, raw, ttl).Err(); err != nil {
				s.log.Warn().Err(err).Msg("cache model list failed")
			}
		}
	}

	return infos
}

type SendMessageInput struct {
	UserID         string
	ConversationID string
	Content        string
	Model          string
}

type SendMessageResult struct {
	UserMessage      models.Message
	AssistantMessage models.Message
}

// SendMessage persists the user turn, replays recent history to the
// provider, and persists the assistant reply. The user message survives even
// when the provider call fails, matching how chat drafts behave.
func (s *ChatService) SendMessage(ctx context.Context, input SendMessageInput) (SendMessageResult, error) {
	conv, err := s.conversations.GetByUser(ctx, input.ConversationID, input.UserID)
	if err != nil {
		return SendMessageResult{}, err
	}

	model := input.Model
	if model == "" {
		model = conv.Model
	}

	provider, err := s.registry.ForModel(model)
	if err != nil {
		return SendMessageResult{}, err
	}

	history, err := s.messages.ListByConversation(ctx, conv.ID)
	if err != nil {
		return SendMessageResult{}, err
	}

	userMsg := models.Message{
		ID:             ids.New(),
		ConversationID: conv.ID,
		Role:           models.MessageRoleUser,
		Content:        input.Content,
		Model:          model,
	}
	if err := s.messages.Create(ctx, userMsg); err != nil {
		return SendMessageResult{}, err
	}

	chatMessages := buildChatWindow(history, userMsg)

	reply, err := provider.Chat(ctx, ai.ChatRequest{
		Model:    model,
		Messages: chatMessages,
	})
	if err != nil {
		s.log.Error().Err(err).
			Str("conversation_id", conv.ID).
			Str("model", model).
			Msg("provider call failed")
		return SendMessageResult{UserMessage: userMsg}, err
	}

	assistantMsg := models.Message{
		ID:             ids.New(),
		ConversationID: conv.ID,
		Role:           models.MessageRoleAssistant,
		Content:        reply.Content,
		Model:          reply.Model,
	}
	if err := s.messages.Create(ctx, assistantMsg); err != nil {
		return SendMessageResult{}, err
	}

	if err := s.conversations.Touch(ctx, conv.ID); err != nil {
		s.log.Warn().Err(err).Str("conversation_id", conv.ID).Msg("touch conversation failed")
	}

	return SendMessageResult{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
	}, nil
}

func buildChatWindow(history []models.Message, latest models.Message) []ai.ChatMessage {
	msgs := append(history, latest)
	if len(msgs) > historyWindow {
		msgs = msgs[len(msgs)-historyWindow:]
	}

	out := make([]ai.ChatMessage, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, ai.ChatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return out
}
