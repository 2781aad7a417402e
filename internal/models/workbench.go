package models

import "time"

type Note struct {
	ID        string
	UserID    string
	Title     string
	Content   string
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TodoList struct {
	ID        string
	UserID    string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TodoItem struct {
	ID        string
	ListID    string
	Content   string
	Done      bool
	Position  int
	DueAt     *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AITool struct {
	ID          string
	UserID      string
	Name        string
	URL         string
	Category    string
	Description string
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type LearningResource struct {
	ID          string
	UserID      string
	Title       string
	URL         string
	Category    string
	Description string
	Progress    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ContentTemplate struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Body        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
