package models

import "time"

// Event represents a loggable action in a user's activity trail.
type Event struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Type      string    `json:"type"`  // e.g., "todo.created", "auth.login"
	Level     string    `json:"level"` // e.g., "info", "warn"
	Message   string    `json:"message"`
	TodoID    *string   `json:"todoId,omitempty"` // Nullable for auth events
	CreatedAt time.Time `json:"createdAt"`
}
