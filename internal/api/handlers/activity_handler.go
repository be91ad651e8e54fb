package handlers

import (
	"net/http"
	"strconv"

	"github.com/isdelr/taskvault-be/internal/auth"
	"github.com/isdelr/taskvault-be/internal/services"
)

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
)

// ActivityHandler serves a user's recent activity trail.
type ActivityHandler struct {
	events services.EventServiceProvider
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(events services.EventServiceProvider) *ActivityHandler {
	return &ActivityHandler{events: events}
}

// GetRecent returns the caller's most recent events.
func (h *ActivityHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r.Context())

	limit := defaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	events, err := h.events.RecentForUser(r.Context(), user.ID, limit)
	if err != nil {
		respondServiceError(w, err, "Failed to list activity")
		return
	}
	respondData(w, http.StatusOK, events)
}
