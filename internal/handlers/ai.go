package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ylbabygo/xuekework/internal/ai"
	"github.com/ylbabygo/xuekework/internal/ids"
	"github.com/ylbabygo/xuekework/internal/middleware"
	"github.com/ylbabygo/xuekework/internal/models"
	"github.com/ylbabygo/xuekework/internal/repository"
	"github.com/ylbabygo/xuekework/internal/service"
)

type conversationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toConversationResponse(conv models.Conversation) conversationResponse {
	return conversationResponse{
		ID:        conv.ID,
		Title:     conv.Title,
		Model:     conv.Model,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
	}
}

type messageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	Model          string    `json:"model"`
	CreatedAt      time.Time `json:"created_at"`
}

func toMessageResponse(msg models.Message) messageResponse {
	return messageResponse{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		Role:           string(msg.Role),
		Content:        msg.Content,
		Model:          msg.Model,
		CreatedAt:      msg.CreatedAt,
	}
}

func (h HandlerSet) ListModels(c *gin.Context) {
	ok(c, h.chatService.Models(c.Request.Context()))
}

func (h HandlerSet) ListConversations(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	limit, offset := pageParams(c)

	convs, err := h.conversations.ListByUser(c.Request.Context(), user.ID, limit, offset)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	items := make([]conversationResponse, 0, len(convs))
	for _, conv := range convs {
		items = append(items, toConversationResponse(conv))
	}
	ok(c, items)
}

type createConversationRequest struct {
	Title string `json:"title"`
	Model string `json:"model"`
}

func (h HandlerSet) CreateConversation(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	title := req.Title
	if title == "" {
		title = "新对话"
	}

	conv := models.Conversation{
		ID:     ids.New(),
		UserID: user.ID,
		Title:  title,
		Model:  req.Model,
	}
	if err := h.conversations.Create(c.Request.Context(), conv); err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	created, err := h.conversations.GetByUser(c.Request.Context(), conv.ID, user.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	ok(c, toConversationResponse(created))
}

func (h HandlerSet) GetConversation(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	conv, err := h.conversations.GetByUser(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			fail(c, http.StatusNotFound, "对话不存在")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	ok(c, toConversationResponse(conv))
}

type updateConversationRequest struct {
	Title string `json:"title" binding:"required"`
}

func (h HandlerSet) UpdateConversation(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req updateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	err := h.conversations.UpdateTitle(c.Request.Context(), c.Param("id"), user.ID, req.Title)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			fail(c, http.StatusNotFound, "对话不存在")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	okMessage(c, "对话已更新")
}

func (h HandlerSet) DeleteConversation(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	err := h.conversations.Delete(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			fail(c, http.StatusNotFound, "对话不存在")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	okMessage(c, "对话已删除")
}

func (h HandlerSet) ListMessages(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	conv, err := h.conversations.GetByUser(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			fail(c, http.StatusNotFound, "对话不存在")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	msgs, err := h.messages.ListByConversation(c.Request.Context(), conv.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	items := make([]messageResponse, 0, len(msgs))
	for _, msg := range msgs {
		items = append(items, toMessageResponse(msg))
	}
	ok(c, items)
}

type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
	Model   string `json:"model"`
}

func (h HandlerSet) SendMessage(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.chatService.SendMessage(c.Request.Context(), service.SendMessageInput{
		UserID:         user.ID,
		ConversationID: c.Param("id"),
		Content:        req.Content,
		Model:          req.Model,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConversationNotFound):
			fail(c, http.StatusNotFound, "对话不存在")
		case errors.Is(err, ai.ErrUnknownModel):
			fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, ai.ErrProviderFailure):
			fail(c, http.StatusBadGateway, err.Error())
		default:
			fail(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	ok(c, gin.H{
		"user_message":      toMessageResponse(result.UserMessage),
		"assistant_message": toMessageResponse(result.AssistantMessage),
	})
}
