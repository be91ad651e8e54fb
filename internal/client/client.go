package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/isdelr/taskvault-be/internal/models"
)

// ErrUnauthorized signals that the server rejected the cached token. The
// client clears its persisted session before returning it.
var ErrUnauthorized = errors.New("session expired")

// APIError carries a non-success response envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// TodoDraft is the client-side shape of a todo mutation request.
type TodoDraft struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed,omitempty"`
	Priority    string `json:"priority,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
}

// Client is an HTTP client for the task API. It injects the cached bearer
// token into every request and drops the cached session whenever the server
// answers 401.
type Client struct {
	baseURL string
	httpc   *http.Client
	store   Store
}

// New creates a client for baseURL persisting its session in store.
func New(baseURL string, store Store) *Client {
	return &Client{baseURL: baseURL, httpc: &http.Client{}, store: store}
}

type authData struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// Register creates a new account and caches the returned session.
func (c *Client) Register(ctx context.Context, name, email, password string) (models.User, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var data authData
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &data); err != nil {
		return models.User{}, err
	}
	return data.User, c.saveSession(data)
}

// Login authenticates and caches the returned session.
func (c *Client) Login(ctx context.Context, email, password string) (models.User, error) {
	body := map[string]string{"email": email, "password": password}
	var data authData
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &data); err != nil {
		return models.User{}, err
	}
	return data.User, c.saveSession(data)
}

// Logout notifies the server best-effort and always clears the cached
// session; tokens cannot be revoked server-side.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.ClearSession()
	if errors.Is(err, ErrUnauthorized) {
		return nil
	}
	return err
}

// Me fetches the authenticated user.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user)
	return user, err
}

// Todos fetches the caller's todo list, newest created first.
func (c *Client) Todos(ctx context.Context) ([]models.Todo, error) {
	var todos []models.Todo
	err := c.do(ctx, http.MethodGet, "/api/todos", nil, &todos)
	return todos, err
}

// Todo fetches a single todo.
func (c *Client) Todo(ctx context.Context, id string) (models.Todo, error) {
	var todo models.Todo
	err := c.do(ctx, http.MethodGet, "/api/todos/"+id, nil, &todo)
	return todo, err
}

// CreateTodo creates a todo and returns the server's record.
func (c *Client) CreateTodo(ctx context.Context, draft TodoDraft) (models.Todo, error) {
	var todo models.Todo
	err := c.do(ctx, http.MethodPost, "/api/todos", draft, &todo)
	return todo, err
}

// UpdateTodo replaces all mutable fields of a todo (PUT semantics: omitted
// fields are cleared server-side).
func (c *Client) UpdateTodo(ctx context.Context, id string, draft TodoDraft) (models.Todo, error) {
	var todo models.Todo
	err := c.do(ctx, http.MethodPut, "/api/todos/"+id, draft, &todo)
	return todo, err
}

// ToggleTodo sets only the completion flag.
func (c *Client) ToggleTodo(ctx context.Context, id string, completed bool) (models.Todo, error) {
	var todo models.Todo
	err := c.do(ctx, http.MethodPatch, "/api/todos/"+id, map[string]bool{"completed": completed}, &todo)
	return todo, err
}

// DeleteTodo removes a todo.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/todos/"+id, nil, nil)
}

// Activity fetches the caller's recent activity trail.
func (c *Client) Activity(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := c.do(ctx, http.MethodGet, "/api/activity", nil, &events)
	return events, err
}

// Token returns the cached bearer token, if any.
func (c *Client) Token() (string, bool) {
	var token string
	ok, err := c.store.Get(KeyAuthToken, &token)
	return token, err == nil && ok && token != ""
}

// CachedUser returns the locally cached user profile, if any.
func (c *Client) CachedUser() (models.User, bool) {
	var user models.User
	ok, err := c.store.Get(KeyUserData, &user)
	return user, err == nil && ok
}

// ClearSession drops the cached token and profile.
func (c *Client) ClearSession() {
	c.store.Delete(KeyAuthToken)
	c.store.Delete(KeyUserData)
}

func (c *Client) saveSession(data authData) error {
	if err := c.store.Set(KeyAuthToken, data.Token); err != nil {
		return err
	}
	return c.store.Set(KeyUserData, data.User)
}

type responseEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token, ok := c.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.ClearSession()
		return ErrUnauthorized
	}

	var env responseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 400 || !env.Success {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}
