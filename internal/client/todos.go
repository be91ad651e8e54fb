package client

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/isdelr/taskvault-be/internal/models"
)

// ErrUnknownTodo is returned when a toggle targets an id that is not in the
// local copy.
var ErrUnknownTodo = errors.New("todo not in local state")

// Filter selects which todos Filtered returns.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// SortField selects the sort key for Filtered.
type SortField string

const (
	SortCreatedAt SortField = "createdAt"
	SortDueDate   SortField = "dueDate"
	SortPriority  SortField = "priority"
	SortTitle     SortField = "title"
)

var priorityRank = map[string]int{
	models.PriorityLow:    0,
	models.PriorityMedium: 1,
	models.PriorityHigh:   2,
}

// TodoState holds the client's in-memory copy of the todo list along with
// the current filter and sort selection. Mutations update the local copy
// from the server's returned record instead of re-fetching the whole list;
// on failure the local copy is left untouched and the error is kept. There
// is no automatic retry.
type TodoState struct {
	client    *Client
	todos     []models.Todo
	err       error
	filter    Filter
	sortBy    SortField
	ascending bool
}

// NewTodoState creates a state holder with the default selection: all todos,
// newest created first.
func NewTodoState(client *Client) *TodoState {
	return &TodoState{
		client: client,
		filter: FilterAll,
		sortBy: SortCreatedAt,
	}
}

// Load fetches the full list from the server.
func (ts *TodoState) Load(ctx context.Context) error {
	todos, err := ts.client.Todos(ctx)
	if err != nil {
		ts.err = err
		return err
	}
	ts.todos = todos
	ts.err = nil
	return nil
}

// Create persists a new todo and prepends the server's record.
func (ts *TodoState) Create(ctx context.Context, draft TodoDraft) error {
	todo, err := ts.client.CreateTodo(ctx, draft)
	if err != nil {
		ts.err = err
		return err
	}
	ts.todos = append([]models.Todo{todo}, ts.todos...)
	ts.err = nil
	return nil
}

// Update replaces a todo and swaps the server's record into place.
func (ts *TodoState) Update(ctx context.Context, id string, draft TodoDraft) error {
	todo, err := ts.client.UpdateTodo(ctx, id, draft)
	if err != nil {
		ts.err = err
		return err
	}
	ts.replace(todo)
	ts.err = nil
	return nil
}

// Toggle flips a todo's completion flag.
func (ts *TodoState) Toggle(ctx context.Context, id string) error {
	var current *models.Todo
	for i := range ts.todos {
		if ts.todos[i].ID == id {
			current = &ts.todos[i]
			break
		}
	}
	if current == nil {
		ts.err = ErrUnknownTodo
		return ErrUnknownTodo
	}

	todo, err := ts.client.ToggleTodo(ctx, id, !current.Completed)
	if err != nil {
		ts.err = err
		return err
	}
	ts.replace(todo)
	ts.err = nil
	return nil
}

// Delete removes a todo server-side and locally.
func (ts *TodoState) Delete(ctx context.Context, id string) error {
	if err := ts.client.DeleteTodo(ctx, id); err != nil {
		ts.err = err
		return err
	}
	kept := ts.todos[:0]
	for _, todo := range ts.todos {
		if todo.ID != id {
			kept = append(kept, todo)
		}
	}
	ts.todos = kept
	ts.err = nil
	return nil
}

// SetFilter selects which todos Filtered returns.
func (ts *TodoState) SetFilter(f Filter) { ts.filter = f }

// SetSort selects the sort key and direction for Filtered.
func (ts *TodoState) SetSort(field SortField, ascending bool) {
	ts.sortBy = field
	ts.ascending = ascending
}

// Todos returns the unfiltered local copy.
func (ts *TodoState) Todos() []models.Todo { return ts.todos }

// Err returns the last mutation or load error.
func (ts *TodoState) Err() error { return ts.err }

// ClearErr resets the last error.
func (ts *TodoState) ClearErr() { ts.err = nil }

// Filtered returns a copy of the list with the current filter and sort
// selection applied.
func (ts *TodoState) Filtered() []models.Todo {
	out := make([]models.Todo, 0, len(ts.todos))
	for _, todo := range ts.todos {
		switch ts.filter {
		case FilterActive:
			if todo.Completed {
				continue
			}
		case FilterCompleted:
			if !todo.Completed {
				continue
			}
		}
		out = append(out, todo)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		// Todos without a due date sort last regardless of direction.
		if ts.sortBy == SortDueDate {
			if (a.DueDate == nil) != (b.DueDate == nil) {
				return b.DueDate == nil
			}
			if a.DueDate == nil {
				return false
			}
		}
		if ts.ascending {
			return ts.less(a, b)
		}
		return ts.less(b, a)
	})
	return out
}

func (ts *TodoState) less(a, b models.Todo) bool {
	switch ts.sortBy {
	case SortDueDate:
		return a.DueDate.Before(*b.DueDate)
	case SortPriority:
		return priorityRank[a.Priority] < priorityRank[b.Priority]
	case SortTitle:
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	default:
		return a.CreatedAt.Before(b.CreatedAt)
	}
}

func (ts *TodoState) replace(todo models.Todo) {
	for i := range ts.todos {
		if ts.todos[i].ID == todo.ID {
			ts.todos[i] = todo
			return
		}
	}
}
