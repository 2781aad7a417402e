package client

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NoteService struct {
	client *Client
}

type NoteFilter struct {
	Keyword string
	Tag     string
	Page    int
	Limit   int
}

func (s *NoteService) List(ctx context.Context, filter NoteFilter) ([]Note, error) {
	query := url.Values{}
	if filter.Keyword != "" {
		query.Set("keyword", filter.Keyword)
	}
	if filter.Tag != "" {
		query.Set("tag", filter.Tag)
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	var notes []Note
	err := s.client.get(ctx, "/notes", query, &notes)
	return notes, err
}

type NoteInput struct {
	Title   string   `json:"title"`
	Content string   `json:"content,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

func (s *NoteService) Create(ctx context.Context, input NoteInput) (Note, error) {
	var note Note
	err := s.client.post(ctx, "/notes", input, &note)
	return note, err
}

func (s *NoteService) Get(ctx context.Context, id string) (Note, error) {
	var note Note
	err := s.client.get(ctx, "/notes/"+url.PathEscape(id), nil, &note)
	return note, err
}

func (s *NoteService) Update(ctx context.Context, id string, input NoteInput) (Note, error) {
	var note Note
	err := s.client.put(ctx, "/notes/"+url.PathEscape(id), input, &note)
	return note, err
}

func (s *NoteService) Delete(ctx context.Context, id string) error {
	return s.client.delete(ctx, "/notes/"+url.PathEscape(id))
}

type TodoList struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TodoItem struct {
	ID        string     `json:"id"`
	ListID    string     `json:"list_id"`
	Content   string     `json:"content"`
	Done      bool       `json:"done"`
	Position  int        `json:"position"`
	DueAt     *time.Time `json:"due_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type TodoService struct {
	client *Client
}

func (s *TodoService) Lists(ctx context.Context) ([]TodoList, error) {
	var lists []TodoList
	err := s.client.get(ctx, "/todos", nil, &lists)
	return lists, err
}

func (s *TodoService) CreateList(ctx context.Context, title string) (TodoList, error) {
	var list TodoList
	err := s.client.post(ctx, "/todos", map[string]string{"title": title}, &list)
	return list, err
}

func (s *TodoService) RenameList(ctx context.Context, listID, title string) error {
	return s.client.put(ctx, "/todos/"+url.PathEscape(listID), map[string]string{"title": title}, nil)
}

func (s *TodoService) DeleteList(ctx context.Context, listID string) error {
	return s.client.delete(ctx, "/todos/"+url.PathEscape(listID))
}

func (s *TodoService) Items(ctx context.Context, listID string) ([]TodoItem, error) {
	var items []TodoItem
	err := s.client.get(ctx, "/todos/"+url.PathEscape(listID)+"/items", nil, &items)
	return items, err
}

type TodoItemInput struct {
	Content string     `json:"content"`
	Done    bool       `json:"done"`
	DueAt   *time.Time `json:"due_at,omitempty"`
}

func (s *TodoService) CreateItem(ctx context.Context, listID string, input TodoItemInput) (TodoItem, error) {
	var item TodoItem
	err := s.client.post(ctx, "/todos/"+url.PathEscape(listID)+"/items", input, &item)
	return item, err
}

func (s *TodoService) UpdateItem(ctx context.Context, listID, itemID string, input TodoItemInput) error {
	return s.client.put(ctx, "/todos/"+url.PathEscape(listID)+"/items/"+url.PathEscape(itemID), input, nil)
}

func (s *TodoService) DeleteItem(ctx context.Context, listID, itemID string) error {
	return s.client.delete(ctx, "/todos/"+url.PathEscape(listID)+"/items/"+url.PathEscape(itemID))
}

// Reorder rewrites item positions to match itemIDs and returns the list in
// its new order.
func (s *TodoService) Reorder(ctx context.Context, listID string, itemIDs []string) ([]TodoItem, error) {
	var items []TodoItem
	err := s.client.put(ctx, "/todos/"+url.PathEscape(listID)+"/items/reorder", map[string][]string{
		"item_ids": itemIDs,
	}, &items)
	return items, err
}

type AITool struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AIToolService struct {
	client *Client
}

func (s *AIToolService) List(ctx context.Context, category string) ([]AITool, error) {
	query := url.Values{}
	if category != "" {
		query.Set("category", category)
	}

	var tools []AITool
	err := s.client.get(ctx, "/ai-tools", query, &tools)
	return tools, err
}

type AIToolInput struct {
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Category    string   `json:"category,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

func (s *AIToolService) Create(ctx context.Context, input AIToolInput) (AITool, error) {
	var tool AITool
	err := s.client.post(ctx, "/ai-tools", input, &tool)
	return tool, err
}

func (s *AIToolService) Get(ctx context.Context, id string) (AITool, error) {
	var tool AITool
	err := s.client.get(ctx, "/ai-tools/"+url.PathEscape(id), nil, &tool)
	return tool, err
}

func (s *AIToolService) Update(ctx context.Context, id string, input AIToolInput) (AITool, error) {
	var tool AITool
	err := s.client.put(ctx, "/ai-tools/"+url.PathEscape(id), input, &tool)
	return tool, err
}

func (s *AIToolService) Delete(ctx context.Context, id string) error {
	return s.client.delete(ctx, "/ai-tools/"+url.PathEscape(id))
}

type LearningResource struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Progress    int       `json:"progress"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type LearningService struct {
	client *Client
}

type LearningFilter struct {
	Category string
	Keyword  string
	Page     int
	Limit    int
}

func (s *LearningService) List(ctx context.Context, filter LearningFilter) ([]LearningResource, error) {
	query := url.Values{}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.Keyword != "" {
		query.Set("keyword", filter.Keyword)
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	var resources []LearningResource
	err := s.client.get(ctx, "/learning/resources", query, &resources)
	return resources, err
}

type LearningResourceInput struct {
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Progress    *int   `json:"progress,omitempty"`
}

func (s *LearningService) Create(ctx context.Context, input LearningResourceInput) (LearningResource, error) {
	var res LearningResource
	err := s.client.post(ctx, "/learning/resources", input, &res)
	return res, err
}

func (s *LearningService) Get(ctx context.Context, id string) (LearningResource, error) {
	var res LearningResource
	err := s.client.get(ctx, "/learning/resources/"+url.PathEscape(id), nil, &res)
	return res, err
}

func (s *LearningService) Update(ctx context.Context, id string, input LearningResourceInput) (LearningResource, error) {
	var res LearningResource
	err := s.client.put(ctx, "/learning/resources/"+url.PathEscape(id), input, &res)
	return res, err
}

func (s *LearningService) Delete(ctx context.Context, id string) error {
	return s.client.delete(ctx, "/learning/resources/"+url.PathEscape(id))
}
