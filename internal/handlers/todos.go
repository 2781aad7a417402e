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

type todoListResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type todoItemResponse struct {
	ID        string     `json:"id"`
	ListID    string     `json:"list_id"`
	Content   string     `json:"content"`
	Done      bool       `json:"done"`
	Position  int        `json:"position"`
	DueAt     *time.Time `json:"due_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func newTodoItemResponse(item models.TodoItem) todoItemResponse {
	return todoItemResponse{
		ID:        item.ID,
		ListID:    item.ListID,
		Content:   item.Content,
		Done:      item.Done,
		Position:  item.Position,
		DueAt:     item.DueAt,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

func (h HandlerSet) ListTodoLists(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	lists, err := h.todos.ListsByUser(c.Request.Context(), user.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	items := make([]todoListResponse, 0, len(lists))
	for _, list := range lists {
		items = append(items, todoListResponse{
			ID:        list.ID,
			Title:     list.Title,
			CreatedAt: list.CreatedAt,
			UpdatedAt: list.UpdatedAt,
		})
	}
	ok(c, items)
}

type todoListPayload struct {
	Title string `json:"title" binding:"required"`
}

func (h HandlerSet) CreateTodoList(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req todoListPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	list := models.TodoList{
		ID:     ids.New(),
		UserID: user.ID,
		Title:  req.Title,
	}
	if err := h.todos.CreateList(c.Request.Context(), list); err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	ok(c, todoListResponse{ID: list.ID, Title: list.Title})
}

func (h HandlerSet) UpdateTodoList(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req todoListPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	err := h.todos.UpdateList(c.Request.Context(), c.Param("listId"), user.ID, req.Title)
	if err != nil {
		if errors.Is(err, repository.ErrTodoListNotFound) {
			fail(c, http.StatusNotFound, "清单不存在")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	okMessage(c, "清单已更新")
}

func (h HandlerSet) DeleteTodoList(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	err := h.todos.DeleteList(c.Request.Context(), c.Param("listId"), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrTodoListNotFound) {
			fail(c, http.StatusNotFound, "清单不存在")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	okMessage(c, "清单已删除")
}

// requireTodoList resolves the :listId param against the current user and
// writes the error response itself when the list is missing.
func (h HandlerSet) requireTodoList(c *gin.Context) (models.TodoList, bool) {
	user, _ := middleware.CurrentUser(c)

	list, err := h.todos.GetListByUser(c.Request.Context(), c.Param("listId"), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrTodoListNotFound) {
			fail(c, http.StatusNotFound, "清单不存在")
			return models.TodoList{}, false
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return models.TodoList{}, false
	}
	return list, true
}

func (h HandlerSet) ListTodoItems(c *gin.Context) {
	list, found := h.requireTodoList(c)
	if !found {
		return
	}

	todoItems, err := h.todos.ItemsByList(c.Request.Context(), list.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	items := make([]todoItemResponse, 0, len(todoItems))
	for _, item := range todoItems {
		items = append(items, newTodoItemResponse(item))
	}
	ok(c, items)
}

type todoItemPayload struct {
	Content string     `json:"content" binding:"required"`
	Done    bool       `json:"done"`
	DueAt   *time.Time `json:"due_at"`
}

func (h HandlerSet) CreateTodoItem(c *gin.Context) {
	list, found := h.requireTodoList(c)
	if !found {
		return
	}

	var req todoItemPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	item := models.TodoItem{
		ID:      ids.New(),
		ListID:  list.ID,
		Content: req.Content,
		Done:    req.Done,
		DueAt:   req.DueAt,
	}
	if err := h.todos.CreateItem(c.Request.Context(), item); err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	ok(c, newTodoItemResponse(item))
}

func (h HandlerSet) UpdateTodoItem(c *gin.Context) {
	list, found := h.requireTodoList(c)
	if !found {
		return
	}

	var req todoItemPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	item := models.TodoItem{
		ID:      c.Param("itemId"),
		ListID:  list.ID,
		Content: req.Content,
		Done:    req.Done,
		DueAt:   req.DueAt,
	}
	if err := h.todos.UpdateItem(c.Request.Context(), item); err != nil {
		if errors.Is(err, repository.ErrTodoItemNotFound) {
			fail(c, http.StatusNotFound, "待办事项不存在")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	okMessage(c, "待办事项已更新")
}

func (h HandlerSet) DeleteTodoItem(c *gin.Context) {
	list, found := h.requireTodoList(c)
	if !found {
		return
	}

	err := h.todos.DeleteItem(c.Request.Context(), c.Param("itemId"), list.ID)
	if err != nil {
		if errors.Is(err, repository.ErrTodoItemNotFound) {
			fail(c, http.StatusNotFound, "待办事项不存在")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	okMessage(c, "待办事项已删除")
}

type reorderRequest struct {
	ItemIDs []string `json:"item_ids" binding:"required"`
}

func (h HandlerSet) ReorderTodoItems(c *gin.Context) {
	list, found := h.requireTodoList(c)
	if !found {
		return
	}

	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.todos.ReorderItems(c.Request.Context(), list.ID, req.ItemIDs); err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	todoItems, err := h.todos.ItemsByList(c.Request.Context(), list.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	items := make([]todoItemResponse, 0, len(todoItems))
	for _, item := range todoItems {
		items = append(items, newTodoItemResponse(item))
	}
	ok(c, items)
}
