package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/taskvault-be/internal/models"
)

// EventServiceProvider defines the interface for the per-user activity trail.
type EventServiceProvider interface {
	Record(ctx context.Context, userID, eventType, level, message string, todoID *string) error
	RecentForUser(ctx context.Context, userID string, limit int) ([]models.Event, error)
}

// EventService records and serves a user's recent activity.
type EventService struct {
	db  *sql.DB
	now func() time.Time
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{db: db, now: time.Now}
}

// Record logs a new event to the database.
func (s *EventService) Record(ctx context.Context, userID, eventType, level, message string, todoID *string) error {
	event := models.Event{
		ID:      uuid.New().String(),
		UserID:  userID,
		Type:    eventType,
		Level:   level,
		Message: message,
		TodoID:  todoID,
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, user_id, type, level, message, todo_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		event.ID, event.UserID, event.Type, event.Level, event.Message, event.TodoID,
		formatTime(s.now()),
	)
	return err
}

// RecentForUser retrieves the most recent events recorded for a user.
func (s *EventService) RecentForUser(ctx context.Context, userID string, limit int) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, type, level, message, todo_id, created_at FROM events WHERE user_id = ? ORDER BY created_at DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var event models.Event
		var todoID sql.NullString
		var createdAt string
		if err := rows.Scan(&event.ID, &event.UserID, &event.Type, &event.Level, &event.Message, &todoID, &createdAt); err != nil {
			return nil, err
		}
		if todoID.Valid {
			event.TodoID = &todoID.String
		}
		if event.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
