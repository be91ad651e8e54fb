package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/taskvault-be/internal/models"
)

// TodoServiceProvider defines the interface for todo services. Every
// operation is scoped by the owning user's id; rows belonging to other users
// behave exactly like missing rows.
type TodoServiceProvider interface {
	ListTodos(ctx context.Context, ownerID string) ([]models.Todo, error)
	GetTodo(ctx context.Context, ownerID, id string) (models.Todo, error)
	CreateTodo(ctx context.Context, ownerID string, input TodoInput) (models.Todo, error)
	ReplaceTodo(ctx context.Context, ownerID, id string, input TodoInput) (models.Todo, error)
	SetTodoCompleted(ctx context.Context, ownerID, id string, completed bool) (models.Todo, error)
	DeleteTodo(ctx context.Context, ownerID, id string) error
}

// TodoInput carries the client-supplied mutable fields of a todo. DueDate is
// the raw string from the request; an empty string means no due date.
type TodoInput struct {
	Title       string
	Description string
	Completed   bool
	Priority    string
	DueDate     string
}

// TodoService provides business logic for todo management.
type TodoService struct {
	db  *sql.DB
	now func() time.Time
}

// NewTodoService creates a new TodoService.
func NewTodoService(db *sql.DB) *TodoService {
	return &TodoService{db: db, now: time.Now}
}

const todoColumns = "id, user_id, title, description, completed, priority, due_date, created_at, updated_at"

// ListTodos retrieves all todos owned by ownerID, newest created first.
func (s *TodoService) ListTodos(ctx context.Context, ownerID string) ([]models.Todo, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE user_id = ? ORDER BY created_at DESC", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

// GetTodo retrieves a single todo owned by ownerID.
func (s *TodoService) GetTodo(ctx context.Context, ownerID, id string) (models.Todo, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE id = ? AND user_id = ?", id, ownerID)
	todo, err := scanTodo(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Todo{}, ErrNotFound
		}
		return models.Todo{}, err
	}
	return todo, nil
}

// CreateTodo validates the input and persists a new todo for ownerID.
// Priority defaults to medium when omitted.
func (s *TodoService) CreateTodo(ctx context.Context, ownerID string, input TodoInput) (models.Todo, error) {
	title, priority, dueDate, err := normalizeInput(input)
	if err != nil {
		return models.Todo{}, err
	}

	now := s.now().UTC()
	todo := models.Todo{
		ID:          uuid.New().String(),
		UserID:      ownerID,
		Title:       title,
		Description: input.Description,
		Completed:   false,
		Priority:    priority,
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO todos(id, user_id, title, description, completed, priority, due_date, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)",
		todo.ID, todo.UserID, todo.Title, todo.Description, todo.Completed, todo.Priority,
		nullableTime(todo.DueDate), formatTime(now), formatTime(now),
	)
	if err != nil {
		return models.Todo{}, err
	}
	return todo, nil
}

// ReplaceTodo overwrites every mutable field of an owned todo in one
// statement. Omitted fields in the request arrive as zero values and are
// written as such: empty description, no due date, not completed, and the
// default priority. The single UPDATE keeps the read-modify-write atomic.
func (s *TodoService) ReplaceTodo(ctx context.Context, ownerID, id string, input TodoInput) (models.Todo, error) {
	title, priority, dueDate, err := normalizeInput(input)
	if err != nil {
		return models.Todo{}, err
	}

	row := s.db.QueryRowContext(ctx,
		"UPDATE todos SET title = ?, description = ?, completed = ?, priority = ?, due_date = ?, updated_at = ? WHERE id = ? AND user_id = ? RETURNING "+todoColumns,
		title, input.Description, input.Completed, priority, nullableTime(dueDate),
		formatTime(s.now()), id, ownerID,
	)
	todo, err := scanTodo(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Todo{}, ErrNotFound
		}
		return models.Todo{}, err
	}
	return todo, nil
}

// SetTodoCompleted flips only the completion flag of an owned todo.
func (s *TodoService) SetTodoCompleted(ctx context.Context, ownerID, id string, completed bool) (models.Todo, error) {
	row := s.db.QueryRowContext(ctx,
		"UPDATE todos SET completed = ?, updated_at = ? WHERE id = ? AND user_id = ? RETURNING "+todoColumns,
		completed, formatTime(s.now()), id, ownerID,
	)
	todo, err := scanTodo(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Todo{}, ErrNotFound
		}
		return models.Todo{}, err
	}
	return todo, nil
}

// DeleteTodo removes an owned todo.
func (s *TodoService) DeleteTodo(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM todos WHERE id = ? AND user_id = ?", id, ownerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// normalizeInput validates the title, resolves the priority default and
// parses the due date.
func normalizeInput(input TodoInput) (title, priority string, dueDate *time.Time, err error) {
	title = strings.TrimSpace(input.Title)
	if title == "" {
		return "", "", nil, validationf("Title is required")
	}
	if len(title) > models.MaxTitleLength {
		return "", "", nil, validationf("Title must be at most %d characters", models.MaxTitleLength)
	}

	priority = input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		return "", "", nil, validationf("Priority must be one of low, medium, high")
	}

	if input.DueDate != "" {
		parsed, perr := parseDueDate(input.DueDate)
		if perr != nil {
			return "", "", nil, validationf("Due date is not a valid date")
		}
		dueDate = &parsed
	}
	return title, priority, dueDate, nil
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

// scanTodo is a helper to scan a todo from a row or rows object.
func scanTodo(scanner interface{ Scan(...interface{}) error }) (models.Todo, error) {
	var todo models.Todo
	var dueDate sql.NullString
	var createdAt, updatedAt string

	err := scanner.Scan(
		&todo.ID, &todo.UserID, &todo.Title, &todo.Description,
		&todo.Completed, &todo.Priority, &dueDate, &createdAt, &updatedAt,
	)
	if err != nil {
		return models.Todo{}, err
	}

	if dueDate.Valid {
		parsed, err := parseTime(dueDate.String)
		if err != nil {
			return models.Todo{}, fmt.Errorf("bad due_date for todo %s: %w", todo.ID, err)
		}
		todo.DueDate = &parsed
	}
	if todo.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Todo{}, fmt.Errorf("bad created_at for todo %s: %w", todo.ID, err)
	}
	if todo.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.Todo{}, fmt.Errorf("bad updated_at for todo %s: %w", todo.ID, err)
	}
	return todo, nil
}
