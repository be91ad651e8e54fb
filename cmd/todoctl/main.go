// Command todoctl is a small terminal client for the task API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/isdelr/taskvault-be/internal/client"
	"github.com/isdelr/taskvault-be/internal/models"
)

const usage = `Usage: todoctl <command> [flags]

Commands:
  register   -name -email -password   create an account and sign in
  login      -email -password         sign in
  logout                              sign out and clear the cached session
  me                                  show the signed-in user
  list       [-filter all|active|completed] [-sort createdAt|dueDate|priority|title] [-asc]
  add        -title [-desc] [-priority low|medium|high] [-due YYYY-MM-DD]
  done       <id>                     mark a todo completed
  undone     <id>                     mark a todo not completed
  rm         <id>                     delete a todo
  activity                            show recent activity
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	baseURL := os.Getenv("TASKVAULT_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}
	store := client.NewFileStore(filepath.Join(configDir, "taskvault", "session.json"))
	c := client.New(baseURL, store)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, c, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client.Client, command string, args []string) error {
	switch command {
	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		name := fs.String("name", "", "display name")
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		fs.Parse(args)

		user, err := c.Register(ctx, *name, *email, *password)
		if err != nil {
			return err
		}
		fmt.Printf("registered and signed in as %s <%s>\n", user.Name, user.Email)
		return nil

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		fs.Parse(args)

		user, err := c.Login(ctx, *email, *password)
		if err != nil {
			return err
		}
		fmt.Printf("signed in as %s <%s>\n", user.Name, user.Email)
		return nil

	case "logout":
		if err := c.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("signed out")
		return nil

	case "me":
		user, err := c.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s> since %s\n", user.Name, user.Email, user.CreatedAt.Format("2006-01-02"))
		return nil

	case "list":
		fs := flag.NewFlagSet("list", flag.ExitOnError)
		filter := fs.String("filter", "all", "all, active or completed")
		sortBy := fs.String("sort", "createdAt", "createdAt, dueDate, priority or title")
		asc := fs.Bool("asc", false, "sort ascending")
		fs.Parse(args)

		state := client.NewTodoState(c)
		if err := state.Load(ctx); err != nil {
			return err
		}
		state.SetFilter(client.Filter(*filter))
		state.SetSort(client.SortField(*sortBy), *asc)

		todos := state.Filtered()
		if len(todos) == 0 {
			fmt.Println("no todos")
			return nil
		}
		for _, todo := range todos {
			printTodo(todo)
		}
		return nil

	case "add":
		fs := flag.NewFlagSet("add", flag.ExitOnError)
		title := fs.String("title", "", "todo title")
		desc := fs.String("desc", "", "description")
		priority := fs.String("priority", "", "low, medium or high")
		due := fs.String("due", "", "due date (YYYY-MM-DD)")
		fs.Parse(args)

		todo, err := c.CreateTodo(ctx, client.TodoDraft{
			Title:       *title,
			Description: *desc,
			Priority:    *priority,
			DueDate:     *due,
		})
		if err != nil {
			return err
		}
		printTodo(todo)
		return nil

	case "done", "undone":
		if len(args) != 1 {
			return fmt.Errorf("%s needs a todo id", command)
		}
		todo, err := c.ToggleTodo(ctx, args[0], command == "done")
		if err != nil {
			return err
		}
		printTodo(todo)
		return nil

	case "rm":
		if len(args) != 1 {
			return fmt.Errorf("rm needs a todo id")
		}
		if err := c.DeleteTodo(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil

	case "activity":
		events, err := c.Activity(ctx)
		if err != nil {
			return err
		}
		for _, event := range events {
			fmt.Printf("%s  %-14s %s\n", event.CreatedAt.Format(time.RFC3339), event.Type, event.Message)
		}
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func printTodo(todo models.Todo) {
	mark := " "
	if todo.Completed {
		mark = "x"
	}
	line := fmt.Sprintf("[%s] %s  (%s)", mark, todo.Title, todo.Priority)
	if todo.DueDate != nil {
		line += "  due " + todo.DueDate.Format("2006-01-02")
	}
	fmt.Println(line)
	fmt.Printf("    id=%s\n", todo.ID)
}
