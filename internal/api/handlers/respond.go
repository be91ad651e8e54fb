package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/isdelr/taskvault-be/internal/services"
	"github.com/rs/zerolog/log"
)

// envelope is the uniform response wrapper every endpoint returns.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func respondData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Success: true, Message: message})
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Success: false, Message: message})
}

// respondServiceError maps the service error taxonomy onto status codes.
// Unexpected errors are logged with context and surfaced as a generic
// message; internals never reach the client.
func respondServiceError(w http.ResponseWriter, err error, logMsg string) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		respondError(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, services.ErrDuplicateEmail):
		respondError(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(w, http.StatusBadRequest, "Invalid credentials")
	case errors.Is(err, services.ErrNotFound):
		respondError(w, http.StatusNotFound, "Todo not found")
	default:
		log.Error().Err(err).Msg(logMsg)
		respondError(w, http.StatusInternalServerError, "Server error")
	}
}
