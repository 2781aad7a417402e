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

type noteResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newNoteResponse(note models.Note) noteResponse {
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}
	return noteResponse{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		Tags:      tags,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

func (h HandlerSet) ListNotes(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	limit, offset := pageParams(c)

	notes, err := h.notes.ListByUser(c.Request.Context(), user.ID,
		c.Query("keyword"), c.Query("tag"), limit, offset)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	items := make([]noteResponse, 0, len(notes))
	for _, note := range notes {
		items = append(items, newNoteResponse(note))
	}
	ok(c, items)
}

type notePayload struct {
	Title   string   `json:"title" binding:"required"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

func (h HandlerSet) CreateNote(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req notePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Tags == nil {
		req.Tags = []string{}
	}

	note := models.Note{
		ID:      ids.New(),
		UserID:  user.ID,
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	}
	if err := h.notes.Create(c.Request.Context(), note); err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	ok(c, newNoteResponse(note))
}

func (h HandlerSet) GetNote(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	note, err := h.notes.GetByUser(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			fail(c, http.StatusNotFound, "笔记不存在")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	ok(c, newNoteResponse(note))
}

func (h HandlerSet) UpdateNote(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req notePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Tags == nil {
		req.Tags = []string{}
	}

	note := models.Note{
		ID:      c.Param("id"),
		UserID:  user.ID,
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	}
	if err := h.notes.Update(c.Request.Context(), note); err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			fail(c, http.StatusNotFound, "笔记不存在")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	updated, err := h.notes.GetByUser(c.Request.Context(), note.ID, user.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, newNoteResponse(updated))
}

func (h HandlerSet) DeleteNote(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	err := h.notes.Delete(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			fail(c, http.StatusNotFound, "笔记不存在")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	okMessage(c, "笔记已删除")
}
