package services

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestCreateUserHashesPassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, bcrypt.MinCost)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "Ada", "ada@x.com", "secret1")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.PasswordHash != "" {
		t.Fatal("returned user must not carry the password hash")
	}

	var stored string
	if err := db.QueryRow("SELECT password_hash FROM users WHERE id = ?", user.ID).Scan(&stored); err != nil {
		t.Fatalf("read stored hash: %v", err)
	}
	if stored == "secret1" || stored == "" {
		t.Fatal("password must be stored as an irreversible hash")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not verify the password: %v", err)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, bcrypt.MinCost)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, "Ada", "ada@x.com", "secret1"); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := svc.CreateUser(ctx, "Imposter", "ada@x.com", "other66"); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	// The first registration is unaffected.
	user, err := svc.AuthenticateUser(ctx, "ada@x.com", "secret1")
	if err != nil {
		t.Fatalf("authenticate after duplicate attempt: %v", err)
	}
	if user.Name != "Ada" {
		t.Fatalf("expected original account, got %q", user.Name)
	}
}

func TestCreateUserValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, bcrypt.MinCost)
	ctx := context.Background()

	cases := []struct {
		name, displayName, email, password string
	}{
		{"short name", "A", "a@x.com", "secret1"},
		{"missing email", "Ada", "", "secret1"},
		{"malformed email", "Ada", "not-an-email", "secret1"},
		{"short password", "Ada", "ada@x.com", "12345"},
	}
	for _, tc := range cases {
		if _, err := svc.CreateUser(ctx, tc.displayName, tc.email, tc.password); !IsValidation(err) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
	}
}

func TestAuthenticateUserUniformFailure(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, bcrypt.MinCost)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, "Ada", "ada@x.com", "secret1"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := svc.AuthenticateUser(ctx, "ada@x.com", "wrong66"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.AuthenticateUser(ctx, "nobody@x.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestEmailComparisonIsCaseSensitive(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, bcrypt.MinCost)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, "Ada", "Ada@x.com", "secret1"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	// A different casing is a different stored identity.
	if _, err := svc.CreateUser(ctx, "Ada Lower", "ada@x.com", "secret1"); err != nil {
		t.Fatalf("differently cased email should register: %v", err)
	}
	if _, err := svc.AuthenticateUser(ctx, "ADA@X.COM", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("lookup must be byte-exact, got %v", err)
	}
}

func TestGetUserByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, bcrypt.MinCost)

	if _, err := svc.GetUserByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
