package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jmallek/lectern/internal/storage"
)

// Execute implements the go-flags Commander interface for TodoCommand.
// Without --add/--done/--remove it lists the reading list.
func (c *TodoCommand) Execute(args []string) error {
	store, db, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store)
}

// executeWithStore runs the todo action against a provided store (for testing).
func (c *TodoCommand) executeWithStore(store storage.Store) error {
	ctx := context.Background()

	switch {
	case c.Add != "":
		return c.add(ctx, store)
	case c.Done != 0:
		return c.complete(ctx, store)
	case c.Remove != 0:
		return c.remove(ctx, store)
	default:
		return c.list(ctx, store)
	}
}

func (c *TodoCommand) add(ctx context.Context, store storage.Store) error {
	item := &storage.TodoItem{
		Path:  c.Add,
		Title: c.Title,
	}
	if err := store.AddTodo(ctx, item); err != nil {
		return fmt.Errorf("add todo: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return printTodoJSON(item, "added")
	}

	fmt.Printf("Added #%d to the reading list: %s\n", item.ID, item.Path)
	return nil
}

func (c *TodoCommand) complete(ctx context.Context, store storage.Store) error {
	if err := store.CompleteTodo(ctx, c.Done); err != nil {
		return err
	}

	if c.globals != nil && c.globals.JSON {
		out := map[string]interface{}{"id": c.Done, "status": "done"}
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(out)
	}

	fmt.Printf("Completed #%d\n", c.Done)
	return nil
}

func (c *TodoCommand) remove(ctx context.Context, store storage.Store) error {
	if err := store.RemoveTodo(ctx, c.Remove); err != nil {
		return err
	}

	if c.globals != nil && c.globals.JSON {
		out := map[string]interface{}{"id": c.Remove, "status": "removed"}
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(out)
	}

	fmt.Printf("Removed #%d\n", c.Remove)
	return nil
}

func (c *TodoCommand) list(ctx context.Context, store storage.Store) error {
	items, err := store.ListTodos(ctx, c.All)
	if err != nil {
		return fmt.Errorf("list todos: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return printTodoListJSON(items)
	}

	if len(items) == 0 {
		fmt.Println("Reading list is empty.")
		return nil
	}

	for _, item := range items {
		mark := " "
		if item.Done {
			mark = "x"
		}
		title := item.Title
		if title == "" {
			title = item.Path
		}
		fmt.Printf("[%s] #%-4d %s\n", mark, item.ID, title)
		if item.Title != "" {
			fmt.Printf("           %s\n", item.Path)
		}
	}

	return nil
}

func printTodoJSON(item *storage.TodoItem, status string) error {
	out := map[string]interface{}{
		"id":       item.ID,
		"path":     item.Path,
		"title":    item.Title,
		"added_at": item.AddedAt.UTC().Format(time.RFC3339),
		"status":   status,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printTodoListJSON(items []storage.TodoItem) error {
	type todoJSON struct {
		ID      int64  `json:"id"`
		Path    string `json:"path"`
		Title   string `json:"title,omitempty"`
		AddedAt string `json:"added_at"`
		Done    bool   `json:"done"`
		DoneAt  string `json:"done_at,omitempty"`
	}

	out := struct {
		Count int        `json:"count"`
		Todos []todoJSON `json:"todos"`
	}{Count: len(items), Todos: make([]todoJSON, len(items))}

	for i, item := range items {
		out.Todos[i] = todoJSON{
			ID:      item.ID,
			Path:    item.Path,
			Title:   item.Title,
			AddedAt: item.AddedAt.UTC().Format(time.RFC3339),
			Done:    item.Done,
		}
		if item.Done {
			out.Todos[i].DoneAt = item.DoneAt.UTC().Format(time.RFC3339)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
