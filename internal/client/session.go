package client

import (
	"context"
	"errors"

	"github.com/isdelr/taskvault-be/internal/models"
)

// Session holds the current identity in memory, backed by the client's
// persistent store. It mirrors the browser auth hook: restore on start,
// verify the cached token, and drop everything on logout or 401.
type Session struct {
	client *Client
	user   *models.User
	err    error
}

// NewSession creates a session around client.
func NewSession(client *Client) *Session {
	return &Session{client: client}
}

// Init restores the cached session and verifies the token is still accepted.
// An invalid cached session is cleared silently; Init only errors on
// transport failures.
func (s *Session) Init(ctx context.Context) error {
	cached, ok := s.client.CachedUser()
	if _, hasToken := s.client.Token(); !ok || !hasToken {
		return nil
	}
	s.user = &cached

	current, err := s.client.Me(ctx)
	if errors.Is(err, ErrUnauthorized) {
		s.user = nil
		return nil
	}
	if err != nil {
		s.user = nil
		return err
	}
	s.user = &current
	return nil
}

// Login authenticates and records the identity.
func (s *Session) Login(ctx context.Context, email, password string) error {
	user, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.err = err
		return err
	}
	s.user = &user
	s.err = nil
	return nil
}

// Register creates an account and records the identity.
func (s *Session) Register(ctx context.Context, name, email, password string) error {
	user, err := s.client.Register(ctx, name, email, password)
	if err != nil {
		s.err = err
		return err
	}
	s.user = &user
	s.err = nil
	return nil
}

// Logout clears the identity locally and best-effort server-side.
func (s *Session) Logout(ctx context.Context) error {
	err := s.client.Logout(ctx)
	s.user = nil
	return err
}

// User returns the current identity, if any.
func (s *Session) User() (models.User, bool) {
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Err returns the last auth error.
func (s *Session) Err() error { return s.err }

// ClearErr resets the last auth error.
func (s *Session) ClearErr() { s.err = nil }
