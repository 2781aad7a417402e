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

type templateResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

func (h HandlerSet) ListTemplates(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	templates, err := h.templates.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	items := make([]templateResponse, 0, len(templates))
	for _, tpl := range templates {
		items = append(items, templateResponse{
			ID:          tpl.ID,
			Name:        tpl.Name,
			Description: tpl.Description,
			Body:        tpl.Body,
			CreatedAt:   tpl.CreatedAt,
		})
	}
	ok(c, items)
}

type createTemplateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Body        string `json:"body" binding:"required"`
}

func (h HandlerSet) CreateTemplate(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req createTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	tpl := models.ContentTemplate{
		ID:          ids.New(),
		UserID:      user.ID,
		Name:        req.Name,
		Description: req.Description,
		Body:        req.Body,
	}
	if err := h.templates.Create(c.Request.Context(), tpl); err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	ok(c, templateResponse{
		ID:          tpl.ID,
		Name:        tpl.Name,
		Description: tpl.Description,
		Body:        tpl.Body,
	})
}

func (h HandlerSet) DeleteTemplate(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	err := h.templates.Delete(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			fail(c, http.StatusNotFound, "模板不存在")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	okMessage(c, "模板已删除")
}

type generateRequest struct {
	TemplateID string            `json:"template_id"`
	Prompt     string            `json:"prompt"`
	Variables  map[string]string `json:"variables"`
	Model      string            `json:"model" binding:"required"`
}

type generateResponse struct {
	Content string `json:"content"`
	Model   string `json:"model"`
}

func (h HandlerSet) GenerateContent(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.contentService.Generate(c.Request.Context(), service.GenerateInput{
		UserID:     user.ID,
		TemplateID: req.TemplateID,
		Prompt:     req.Prompt,
		Variables:  req.Variables,
		Model:      req.Model,
	})
	if err != nil {
		h.respondContentError(c, err)
		return
	}

	ok(c, generateResponse{Content: result.Content, Model: result.Model})
}

type optimizeRequest struct {
	Text        string `json:"text" binding:"required"`
	Instruction string `json:"instruction"`
	Model       string `json:"model" binding:"required"`
}

func (h HandlerSet) OptimizeContent(c *gin.Context) {
	var req optimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.contentService.Optimize(c.Request.Context(), service.OptimizeInput{
		Text:        req.Text,
		Instruction: req.Instruction,
		Model:       req.Model,
	})
	if err != nil {
		h.respondContentError(c, err)
		return
	}

	ok(c, generateResponse{Content: result.Content, Model: result.Model})
}

func (h HandlerSet) respondContentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrTemplateNotFound):
		fail(c, http.StatusNotFound, "模板不存在")
	case errors.Is(err, service.ErrEmptyPrompt):
		fail(c, http.StatusBadRequest, "提示词不能为空")
	case errors.Is(err, ai.ErrUnknownModel):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ai.ErrProviderFailure):
		fail(c, http.StatusBadGateway, err.Error())
	default:
		fail(c, http.StatusInternalServerError, err.Error())
	}
}
