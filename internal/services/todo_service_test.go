package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func newTodoFixture(t *testing.T) (*sql.DB, *TodoService, string, string) {
	t.Helper()
	db := newTestDB(t)
	users := NewUserService(db, bcrypt.MinCost)
	ctx := context.Background()

	alice, err := users.CreateUser(ctx, "Alice", "alice@x.com", "secret1")
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	bob, err := users.CreateUser(ctx, "Bob", "bob@x.com", "secret1")
	if err != nil {
		t.Fatalf("create bob: %v", err)
	}
	return db, NewTodoService(db), alice.ID, bob.ID
}

func TestCreateTodoDefaults(t *testing.T) {
	_, svc, alice, _ := newTodoFixture(t)
	ctx := context.Background()

	todo, err := svc.CreateTodo(ctx, alice, TodoInput{Title: "Buy milk"})
	if err != nil {
		t.Fatalf("create todo: %v", err)
	}
	if todo.Completed {
		t.Fatal("new todos start incomplete")
	}
	if todo.Priority != "medium" {
		t.Fatalf("expected default priority medium, got %q", todo.Priority)
	}
	if todo.DueDate != nil {
		t.Fatal("expected no due date")
	}
	if todo.UserID != alice {
		t.Fatalf("expected owner %s, got %s", alice, todo.UserID)
	}
}

func TestCreateTodoValidation(t *testing.T) {
	_, svc, alice, _ := newTodoFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input TodoInput
	}{
		{"empty title", TodoInput{Title: ""}},
		{"blank title", TodoInput{Title: "   "}},
		{"overlong title", TodoInput{Title: strings.Repeat("x", 101)}},
		{"bad priority", TodoInput{Title: "ok", Priority: "urgent"}},
		{"bad due date", TodoInput{Title: "ok", DueDate: "someday"}},
	}
	for _, tc := range cases {
		if _, err := svc.CreateTodo(ctx, alice, tc.input); !IsValidation(err) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
	}

	// Nothing was persisted by the rejected inputs.
	todos, err := svc.ListTodos(ctx, alice)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(todos) != 0 {
		t.Fatalf("expected no persisted todos, got %d", len(todos))
	}
}

func TestCreateTodoDueDateFormats(t *testing.T) {
	_, svc, alice, _ := newTodoFixture(t)
	ctx := context.Background()

	todo, err := svc.CreateTodo(ctx, alice, TodoInput{Title: "calendar", DueDate: "2026-09-01"})
	if err != nil {
		t.Fatalf("create with calendar date: %v", err)
	}
	want := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	if todo.DueDate == nil || !todo.DueDate.Equal(want) {
		t.Fatalf("expected due date %v, got %v", want, todo.DueDate)
	}

	todo, err = svc.CreateTodo(ctx, alice, TodoInput{Title: "timestamp", DueDate: "2026-09-01T10:30:00Z"})
	if err != nil {
		t.Fatalf("create with RFC3339 date: %v", err)
	}
	want = time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	if todo.DueDate == nil || !todo.DueDate.Equal(want) {
		t.Fatalf("expected due date %v, got %v", want, todo.DueDate)
	}
}

func TestListTodosNewestFirst(t *testing.T) {
	_, svc, alice, _ := newTodoFixture(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"first", "second", "third"} {
		created := base.Add(time.Duration(i) * time.Millisecond)
		svc.now = func() time.Time { return created }
		if _, err := svc.CreateTodo(ctx, alice, TodoInput{Title: title}); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}

	todos, err := svc.ListTodos(ctx, alice)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(todos) != 3 {
		t.Fatalf("expected 3 todos, got %d", len(todos))
	}
	for i, want := range []string{"third", "second", "first"} {
		if todos[i].Title != want {
			t.Fatalf("position %d: expected %q, got %q", i, want, todos[i].Title)
		}
	}
}

func TestOwnershipScoping(t *testing.T) {
	_, svc, alice, bob := newTodoFixture(t)
	ctx := context.Background()

	todo, err := svc.CreateTodo(ctx, alice, TodoInput{Title: "private"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Bob cannot see, mutate or delete Alice's record; every path reports
	// not-found rather than forbidden.
	if _, err := svc.GetTodo(ctx, bob, todo.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.ReplaceTodo(ctx, bob, todo.ID, TodoInput{Title: "stolen"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("replace: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.SetTodoCompleted(ctx, bob, todo.ID, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("set completed: expected ErrNotFound, got %v", err)
	}
	if err := svc.DeleteTodo(ctx, bob, todo.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}

	todos, err := svc.ListTodos(ctx, bob)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(todos) != 0 {
		t.Fatal("bob must not see alice's todos")
	}

	// Alice still has an untouched record.
	got, err := svc.GetTodo(ctx, alice, todo.ID)
	if err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if got.Title != "private" || got.Completed {
		t.Fatalf("record was mutated across owners: %+v", got)
	}
}

func TestSetCompletedRoundTripPreservesFields(t *testing.T) {
	_, svc, alice, _ := newTodoFixture(t)
	ctx := context.Background()

	before, err := svc.CreateTodo(ctx, alice, TodoInput{
		Title:       "Water plants",
		Description: "the ones on the balcony",
		Priority:    "high",
		DueDate:     "2026-09-15",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.SetTodoCompleted(ctx, alice, before.ID, true); err != nil {
		t.Fatalf("set true: %v", err)
	}
	if _, err := svc.SetTodoCompleted(ctx, alice, before.ID, false); err != nil {
		t.Fatalf("set false: %v", err)
	}
	after, err := svc.SetTodoCompleted(ctx, alice, before.ID, true)
	if err != nil {
		t.Fatalf("set true again: %v", err)
	}

	if !after.Completed {
		t.Fatal("expected completed=true")
	}
	if after.Title != before.Title ||
		after.Description != before.Description ||
		after.Priority != before.Priority ||
		!after.CreatedAt.Equal(before.CreatedAt) ||
		(after.DueDate == nil) != (before.DueDate == nil) ||
		(after.DueDate != nil && !after.DueDate.Equal(*before.DueDate)) {
		t.Fatalf("non-targeted fields changed: before %+v after %+v", before, after)
	}
}

func TestReplaceClearsOmittedFields(t *testing.T) {
	_, svc, alice, _ := newTodoFixture(t)
	ctx := context.Background()

	todo, err := svc.CreateTodo(ctx, alice, TodoInput{
		Title:       "Original",
		Description: "with details",
		Priority:    "high",
		DueDate:     "2026-09-15",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// A full update carrying only a title clears everything else.
	replaced, err := svc.ReplaceTodo(ctx, alice, todo.ID, TodoInput{Title: "Replaced"})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if replaced.Description != "" {
		t.Fatalf("expected cleared description, got %q", replaced.Description)
	}
	if replaced.DueDate != nil {
		t.Fatalf("expected cleared due date, got %v", replaced.DueDate)
	}
	if replaced.Priority != "medium" {
		t.Fatalf("expected priority reset to medium, got %q", replaced.Priority)
	}
	if replaced.Completed {
		t.Fatal("expected completed reset to false")
	}
	if !replaced.CreatedAt.Equal(todo.CreatedAt) {
		t.Fatal("creation time is immutable")
	}

	// A replace without a title is rejected; title is required.
	if _, err := svc.ReplaceTodo(ctx, alice, todo.ID, TodoInput{}); !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestDeleteTodo(t *testing.T) {
	_, svc, alice, _ := newTodoFixture(t)
	ctx := context.Background()

	todo, err := svc.CreateTodo(ctx, alice, TodoInput{Title: "gone soon"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteTodo(ctx, alice, todo.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetTodo(ctx, alice, todo.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.DeleteTodo(ctx, alice, todo.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}
