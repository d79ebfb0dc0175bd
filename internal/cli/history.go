package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jmallek/lectern/internal/storage"
)

// Execute implements the go-flags Commander interface for HistoryCommand.
func (c *HistoryCommand) Execute(args []string) error {
	store, db, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store, args)
}

// executeWithStore runs the listing against a provided store (for testing).
func (c *HistoryCommand) executeWithStore(store storage.Store, args []string) error {
	match := c.Match
	if match == "" && len(args) > 0 {
		match = args[0]
	}

	var since time.Time
	if c.Since != "" {
		dur, err := parseDuration(c.Since)
		if err != nil {
			return fmt.Errorf("invalid --since value %q: %w", c.Since, err)
		}
		since = time.Now().Add(-dur)
	}

	q := storage.HistoryQuery{
		Match:    match,
		Category: c.Category,
		Since:    since,
		Limit:    c.Limit,
		Offset:   c.Offset,
	}

	ctx := context.Background()
	results, err := store.History(ctx, q)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return c.printJSON(results)
	}
	return c.printHuman(results)
}

func (c *HistoryCommand) printHuman(results []storage.ReadEvent) error {
	if len(results) == 0 {
		fmt.Printf("No reads found (since %s)\n", c.Since)
		return nil
	}

	readWord := "reads"
	if len(results) == 1 {
		readWord = "read"
	}
	fmt.Printf("Found %d %s (since %s)\n\n", len(results), readWord, c.Since)

	for i, e := range results {
		title := e.Title
		if title == "" {
			title = e.Path
		}
		fmt.Printf("%d. %s — %s\n", i+1+c.Offset, title, e.Category)
		fmt.Printf("   %s\n", e.Path)

		meta := e.Timestamp.Local().Format("2006-01-02 15:04")
		if e.Seconds > 0 {
			meta += " · " + formatDurationHuman(time.Duration(e.Seconds)*time.Second)
		}
		if e.Source != "" {
			meta += " · " + e.Source
		}
		fmt.Printf("   %s\n", meta)

		if i < len(results)-1 {
			fmt.Println()
		}
	}

	return nil
}

type historyJSONResult struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	Title     string `json:"title,omitempty"`
	Category  string `json:"category"`
	Timestamp string `json:"timestamp"`
	Seconds   int    `json:"seconds"`
	Source    string `json:"source"`
}

func (c *HistoryCommand) printJSON(results []storage.ReadEvent) error {
	out := struct {
		Count   int                 `json:"count"`
		Results []historyJSONResult `json:"results"`
	}{
		Count:   len(results),
		Results: make([]historyJSONResult, len(results)),
	}

	for i, e := range results {
		out.Results[i] = historyJSONResult{
			ID:        e.ID,
			Path:      e.Path,
			Title:     e.Title,
			Category:  e.Category,
			Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
			Seconds:   e.Seconds,
			Source:    e.Source,
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
