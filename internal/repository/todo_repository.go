package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ylbabygo/xuekework/internal/models"
)

var (
	ErrTodoListNotFound = errors.New("todo list not found")
	ErrTodoItemNotFound = errors.New("todo item not found")
)

type TodoRepository struct {
	pool *pgxpool.Pool
}

func NewTodoRepository(pool *pgxpool.Pool) *TodoRepository {
	return &TodoRepository{pool: pool}
}

func (r *TodoRepository) CreateList(ctx context.Context, list models.TodoList) error {
	const query = `
		INSERT INTO todo_lists (id, user_id, title, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query, list.ID, list.UserID, list.Title)
	return err
}

func (r *TodoRepository) GetListByUser(ctx context.Context, id string, userID string) (models.TodoList, error) {
	const query = `
		SELECT id, user_id, title, created_at, updated_at
		FROM todo_lists
		WHERE id = $1 AND user_id = $2
	`

	row := r.pool.QueryRow(ctx, query, id, userID)
	var list models.TodoList
	if err := row.Scan(&list.ID, &list.UserID, &list.Title, &list.CreatedAt, &list.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.TodoList{}, ErrTodoListNotFound
		}
		return models.TodoList{}, err
	}
	return list, nil
}

func (r *TodoRepository) ListsByUser(ctx context.Context, userID string) ([]models.TodoList, error) {
	const query = `
		SELECT id, user_id, title, created_at, updated_at
		FROM todo_lists
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []models.TodoList
	for rows.Next() {
		var list models.TodoList
		if err := rows.Scan(&list.ID, &list.UserID, &list.Title, &list.CreatedAt, &list.UpdatedAt); err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	return lists, rows.Err()
}

func (r *TodoRepository) UpdateList(ctx context.Context, id string, userID string, title string) error {
	const query = `
		UPDATE todo_lists SET title = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`
	cmd, err := r.pool.Exec(ctx, query, id, userID, title)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTodoListNotFound
	}
	return nil
}

func (r *TodoRepository) DeleteList(ctx context.Context, id string, userID string) error {
	const query = `DELETE FROM todo_lists WHERE id = $1 AND user_id = $2`
	cmd, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTodoListNotFound
	}
	return nil
}

func (r *TodoRepository) CreateItem(ctx context.Context, item models.TodoItem) error {
	const query = `
		INSERT INTO todo_items (id, list_id, content, done, position, due_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4,
			(SELECT COALESCE(MAX(position), -1) + 1 FROM todo_items WHERE list_id = $2),
			$5, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query, item.ID, item.ListID, item.Content, item.Done, item.DueAt)
	return err
}

func (r *TodoRepository) ItemsByList(ctx context.Context, listID string) ([]models.TodoItem, error) {
	const query = `
		SELECT id, list_id, content, done, position, due_at, created_at, updated_at
		FROM todo_items
		WHERE list_id = $1
		ORDER BY position ASC
	`

	rows, err := r.pool.Query(ctx, query, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.TodoItem
	for rows.Next() {
		var item models.TodoItem
		if err := rows.Scan(
			&item.ID,
			&item.ListID,
			&item.Content,
			&item.Done,
			&item.Position,
			&item.DueAt,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *TodoRepository) UpdateItem(ctx context.Context, item models.TodoItem) error {
	const query = `
		UPDATE todo_items
		SET content = $3, done = $4, due_at = $5, updated_at = NOW()
		WHERE id = $1 AND list_id = $2
	`
	cmd, err := r.pool.Exec(ctx, query, item.ID, item.ListID, item.Content, item.Done, item.DueAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTodoItemNotFound
	}
	return nil
}

func (r *TodoRepository) DeleteItem(ctx context.Context, id string, listID string) error {
	const query = `DELETE FROM todo_items WHERE id = $1 AND list_id = $2`
	cmd, err := r.pool.Exec(ctx, query, id, listID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTodoItemNotFound
	}
	return nil
}

// ReorderItems rewrites positions in one transaction so a drag-and-drop
// reorder is all-or-nothing. Item IDs not belonging to the list are ignored
// by the WHERE clause rather than failing the whole batch.
func (r *TodoRepository) ReorderItems(ctx context.Context, listID string, orderedIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const query = `
		UPDATE todo_items SET position = $3, updated_at = NOW()
		WHERE id = $1 AND list_id = $2
	`
	for pos, id := range orderedIDs {
		if _, err := tx.Exec(ctx, query, id, listID, pos); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
