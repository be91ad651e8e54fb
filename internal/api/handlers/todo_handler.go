package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/taskvault-be/internal/auth"
	"github.com/isdelr/taskvault-be/internal/services"
	"github.com/rs/zerolog/log"
)

// TodoHandler handles HTTP requests for todo management. The owning user is
// always taken from the authenticated request context, never from the body.
type TodoHandler struct {
	todos  services.TodoServiceProvider
	events services.EventServiceProvider
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(todos services.TodoServiceProvider, events services.EventServiceProvider) *TodoHandler {
	return &TodoHandler{todos: todos, events: events}
}

// TodoPayload defines the mutable fields a client may submit.
type TodoPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
}

func (p TodoPayload) toInput() services.TodoInput {
	return services.TodoInput{
		Title:       p.Title,
		Description: p.Description,
		Completed:   p.Completed,
		Priority:    p.Priority,
		DueDate:     p.DueDate,
	}
}

// GetAll returns the caller's todos, newest created first.
func (h *TodoHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r.Context())
	todos, err := h.todos.ListTodos(r.Context(), user.ID)
	if err != nil {
		respondServiceError(w, err, "Failed to list todos")
		return
	}
	respondData(w, http.StatusOK, todos)
}

// Get returns a single owned todo.
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r.Context())
	id := chi.URLParam(r, "id")

	todo, err := h.todos.GetTodo(r.Context(), user.ID, id)
	if err != nil {
		respondServiceError(w, err, "Failed to get todo")
		return
	}
	respondData(w, http.StatusOK, todo)
}

// Create adds a new todo for the caller.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r.Context())
	var payload TodoPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	todo, err := h.todos.CreateTodo(r.Context(), user.ID, payload.toInput())
	if err != nil {
		respondServiceError(w, err, "Failed to create todo")
		return
	}

	h.record(r, user.ID, "todo.created", todo.Title, todo.ID)
	respondData(w, http.StatusCreated, todo)
}

// Replace handles PUT: every mutable field is overwritten, so fields omitted
// from the payload are cleared.
func (h *TodoHandler) Replace(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r.Context())
	id := chi.URLParam(r, "id")

	var payload TodoPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	todo, err := h.todos.ReplaceTodo(r.Context(), user.ID, id, payload.toInput())
	if err != nil {
		respondServiceError(w, err, "Failed to update todo")
		return
	}

	h.record(r, user.ID, "todo.updated", todo.Title, todo.ID)
	respondData(w, http.StatusOK, todo)
}

// SetCompleted handles PATCH: only the completion flag is touched.
func (h *TodoHandler) SetCompleted(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r.Context())
	id := chi.URLParam(r, "id")

	var payload struct {
		Completed bool `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	todo, err := h.todos.SetTodoCompleted(r.Context(), user.ID, id, payload.Completed)
	if err != nil {
		respondServiceError(w, err, "Failed to toggle todo")
		return
	}

	h.record(r, user.ID, "todo.toggled", todo.Title, todo.ID)
	respondData(w, http.StatusOK, todo)
}

// Delete removes an owned todo.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.todos.DeleteTodo(r.Context(), user.ID, id); err != nil {
		respondServiceError(w, err, "Failed to delete todo")
		return
	}

	h.record(r, user.ID, "todo.deleted", "", id)
	respondMessage(w, http.StatusOK, "Todo deleted successfully")
}

func (h *TodoHandler) record(r *http.Request, userID, eventType, title, todoID string) {
	message := eventType
	if title != "" {
		message = title
	}
	if err := h.events.Record(r.Context(), userID, eventType, "info", message, &todoID); err != nil {
		log.Warn().Err(err).Str("type", eventType).Msg("Failed to record event")
	}
}
