package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/isdelr/taskvault-be/internal/auth"
	"github.com/isdelr/taskvault-be/internal/services"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration, login and identity lookups.
type AuthHandler struct {
	users  services.UserServiceProvider
	events services.EventServiceProvider
	tokens *auth.TokenManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, events services.EventServiceProvider, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{users: users, events: events, tokens: tokens}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the user record plus a fresh bearer token.
type AuthResponse struct {
	User  interface{} `json:"user"`
	Token string      `json:"token"`
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.CreateUser(r.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		respondServiceError(w, err, "Failed to register user")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue token")
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.record(r, user.ID, "auth.register", "Account created")
	respondData(w, http.StatusCreated, AuthResponse{User: user, Token: token})
}

// Login handles user authentication and token issuance.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.AuthenticateUser(r.Context(), payload.Email, payload.Password)
	if err != nil {
		log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
		respondServiceError(w, err, "Failed to authenticate user")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue token")
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.record(r, user.ID, "auth.login", "Signed in")
	respondData(w, http.StatusOK, AuthResponse{User: user, Token: token})
}

// GetMe returns the currently authenticated user.
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user from context")
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	respondData(w, http.StatusOK, user)
}

// Logout acknowledges a logout. Tokens are stateless, so there is nothing to
// invalidate server-side; the client discards its cached session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if user, ok := auth.CurrentUser(r.Context()); ok {
		h.record(r, user.ID, "auth.logout", "Signed out")
	}
	respondMessage(w, http.StatusOK, "Logged out successfully")
}

// record appends to the activity trail; failures are logged, never surfaced.
func (h *AuthHandler) record(r *http.Request, userID, eventType, message string) {
	if err := h.events.Record(r.Context(), userID, eventType, "info", message, nil); err != nil {
		log.Warn().Err(err).Str("type", eventType).Msg("Failed to record event")
	}
}
