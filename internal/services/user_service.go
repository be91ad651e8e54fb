package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/taskvault-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	CreateUser(ctx context.Context, name, email, password string) (models.User, error)
	AuthenticateUser(ctx context.Context, email, password string) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

// UserService provides business logic for user accounts.
type UserService struct {
	db         *sql.DB
	bcryptCost int
	now        func() time.Time
}

// NewUserService creates a new UserService hashing passwords at the given
// bcrypt cost.
func NewUserService(db *sql.DB, bcryptCost int) *UserService {
	return &UserService{db: db, bcryptCost: bcryptCost, now: time.Now}
}

// CreateUser registers a new account, hashing the password before storage.
// The plaintext password is never persisted or logged.
func (s *UserService) CreateUser(ctx context.Context, name, email, password string) (models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if len(name) < 2 {
		return models.User{}, validationf("Name must be at least 2 characters")
	}
	if email == "" || !strings.Contains(email, "@") {
		return models.User{}, validationf("A valid email address is required")
	}
	if len(password) < 6 {
		return models.User{}, validationf("Password must be at least 6 characters")
	}

	// Check-first keeps the common duplicate path off the error log; the
	// unique index still backstops concurrent registrations.
	if _, err := s.GetUserByEmail(ctx, email); err == nil {
		return models.User{}, ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user := models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users(id, name, email, password_hash, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Email, user.PasswordHash, formatTime(now), formatTime(now),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// AuthenticateUser verifies a user's credentials. Unknown email and wrong
// password both yield ErrInvalidCredentials.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	user.PasswordHash = ""
	return user, nil
}

// GetUserByEmail retrieves a single user by their email, including the
// password hash. Email comparison is byte-exact, matching storage.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE email = ?", email)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// scanUser is a helper to scan a user from a row or rows object.
func scanUser(scanner interface{ Scan(...interface{}) error }) (models.User, error) {
	var user models.User
	var createdAt, updatedAt string

	if err := scanner.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &createdAt, &updatedAt); err != nil {
		return models.User{}, err
	}

	var err error
	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.User{}, fmt.Errorf("bad created_at for user %s: %w", user.ID, err)
	}
	if user.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.User{}, fmt.Errorf("bad updated_at for user %s: %w", user.ID, err)
	}
	return user, nil
}
