package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ylbabygo/xuekework/internal/ids"
	"github.com/ylbabygo/xuekework/internal/middleware"
	"github.com/ylbabygo/xuekework/internal/models"
	"github.com/ylbabygo/xuekework/internal/repository"
)

type aiToolResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newAIToolResponse(tool models.AITool) aiToolResponse {
	tags := tool.Tags
	if tags == nil {
		tags = []string{}
	}
	return aiToolResponse{
		ID:          tool.ID,
		Name:        tool.Name,
		URL:         tool.URL,
		Category:    tool.Category,
		Description: tool.Description,
		Tags:        tags,
		CreatedAt:   tool.CreatedAt,
		UpdatedAt:   tool.UpdatedAt,
	}
}

func (h HandlerSet) ListAITools(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	tools, err := h.aiTools.ListByUser(c.Request.Context(), user.ID, c.Query("category"))
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	items := make([]aiToolResponse, 0, len(tools))
	for _, tool := range tools {
		items = append(items, newAIToolResponse(tool))
	}
	ok(c, items)
}

type aiToolPayload struct {
	Name        string   `json:"name" binding:"required"`
	URL         string   `json:"url" binding:"required,url"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

func (h HandlerSet) CreateAITool(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req aiToolPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Tags == nil {
		req.Tags = []string{}
	}

	tool := models.AITool{
		ID:          ids.New(),
		UserID:      user.ID,
		Name:        req.Name,
		URL:         req.URL,
		Category:    req.Category,
		Description: req.Description,
		Tags:        req.Tags,
	}
	if err := h.aiTools.Create(c.Request.Context(), tool); err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	ok(c, newAIToolResponse(tool))
}

func (h HandlerSet) GetAITool(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	tool, err := h.aiTools.GetByUser(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrAIToolNotFound) {
			fail(c, http.StatusNotFound, "工具不存在")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	ok(c, newAIToolResponse(tool))
}

func (h HandlerSet) UpdateAITool(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req aiToolPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Tags == nil {
		req.Tags = []string{}
	}

	tool := models.AITool{
		ID:          c.Param("id"),
		UserID:      user.ID,
		Name:        req.Name,
		URL:         req.URL,
		Category:    req.Category,
		Description: req.Description,
		Tags:        req.Tags,
	}
	if err := h.aiTools.Update(c.Request.Context(), tool); err != nil {
		if errors.Is(err, repository.ErrAIToolNotFound) {
			fail(c, http.StatusNotFound, "工具不存在")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	updated, err := h.aiTools.GetByUser(c.Request.Context(), tool.ID, user.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, newAIToolResponse(updated))
}

func (h HandlerSet) DeleteAITool(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	err := h.aiTools.Delete(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrAIToolNotFound) {
			fail(c, http.StatusNotFound, "工具不存在")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	okMessage(c, "工具已删除")
}
