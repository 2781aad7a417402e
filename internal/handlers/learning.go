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

type learningResourceResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Progress    int       `json:"progress"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newLearningResourceResponse(res models.LearningResource) learningResourceResponse {
	return learningResourceResponse{
		ID:          res.ID,
		Title:       res.Title,
		URL:         res.URL,
		Category:    res.Category,
		Description: res.Description,
		Progress:    res.Progress,
		CreatedAt:   res.CreatedAt,
		UpdatedAt:   res.UpdatedAt,
	}
}

func (h HandlerSet) ListLearningResources(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	limit, offset := pageParams(c)

	resources, err := h.learning.ListByUser(c.Request.Context(), user.ID,
		c.Query("category"), c.Query("keyword"), limit, offset)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	items := make([]learningResourceResponse, 0, len(resources))
	for _, res := range resources {
		items = append(items, newLearningResourceResponse(res))
	}
	ok(c, items)
}

type learningResourcePayload struct {
	Title       string `json:"title" binding:"required"`
	URL         string `json:"url"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Progress    *int   `json:"progress"`
}

func (p learningResourcePayload) progress() (int, bool) {
	if p.Progress == nil {
		return 0, true
	}
	v := *p.Progress
	return v, v >= 0 && v <= 100
}

func (h HandlerSet) CreateLearningResource(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req learningResourcePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	progress, valid := req.progress()
	if !valid {
		fail(c, http.StatusBadRequest, "学习进度须在 0-100 之间")
		return
	}

	res := models.LearningResource{
		ID:          ids.New(),
		UserID:      user.ID,
		Title:       req.Title,
		URL:         req.URL,
		Category:    req.Category,
		Description: req.Description,
		Progress:    progress,
	}
	if err := h.learning.Create(c.Request.Context(), res); err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	ok(c, newLearningResourceResponse(res))
}

func (h HandlerSet) GetLearningResource(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	res, err := h.learning.GetByUser(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrLearningResourceNotFound) {
			fail(c, http.StatusNotFound, "学习资源不存在")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	ok(c, newLearningResourceResponse(res))
}

func (h HandlerSet) UpdateLearningResource(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req learningResourcePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	progress, valid := req.progress()
	if !valid {
		fail(c, http.StatusBadRequest, "学习进度须在 0-100 之间")
		return
	}

	res := models.LearningResource{
		ID:          c.Param("id"),
		UserID:      user.ID,
		Title:       req.Title,
		URL:         req.URL,
		Category:    req.Category,
		Description: req.Description,
		Progress:    progress,
	}
	if err := h.learning.Update(c.Request.Context(), res); err != nil {
		if errors.Is(err, repository.ErrLearningResourceNotFound) {
			fail(c, http.StatusNotFound, "学习资源不存在")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	updated, err := h.learning.GetByUser(c.Request.Context(), res.ID, user.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, newLearningResourceResponse(updated))
}

func (h HandlerSet) DeleteLearningResource(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	err := h.learning.Delete(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrLearningResourceNotFound) {
			fail(c, http.StatusNotFound, "学习资源不存在")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	okMessage(c, "学习资源已删除")
}
