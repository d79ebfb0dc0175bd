package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jmallek/lectern/internal/config"
	"github.com/jmallek/lectern/internal/stats"
	"github.com/jmallek/lectern/internal/storage"
)

// Execute implements the go-flags Commander interface for ReadCommand.
func (c *ReadCommand) Execute(args []string) error {
	docPath := c.Path
	if docPath == "" && len(args) > 0 {
		docPath = args[0]
	}
	if docPath == "" {
		return fmt.Errorf("a document path is required (--path or positional argument)")
	}

	store, db, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store, docPath)
}

// executeWithStore records the read against a provided store (for testing).
func (c *ReadCommand) executeWithStore(store storage.Store, docPath string) error {
	spent, err := parseDuration(c.Spent)
	if err != nil {
		return fmt.Errorf("invalid --spent value %q: %w", c.Spent, err)
	}

	ctx := context.Background()

	before, err := store.UnlockedAchievements(ctx)
	if err != nil {
		return fmt.Errorf("load achievements: %w", err)
	}

	event := &storage.ReadEvent{
		Path:      docPath,
		Title:     c.Title,
		Seconds:   int(spent.Seconds()),
		Source:    "cli",
		Timestamp: time.Now(),
	}
	if err := store.RecordRead(ctx, event); err != nil {
		return fmt.Errorf("record read: %w", err)
	}

	events, err := store.AllReads(ctx)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	todosDone, err := store.CountCompletedTodos(ctx)
	if err != nil {
		return fmt.Errorf("count todos: %w", err)
	}

	summary := stats.BuildSummary(events, todosDone, event.Timestamp)
	fresh := stats.NewlyUnlocked(before, summary)
	for _, a := range fresh {
		if _, err := store.UnlockAchievement(ctx, a.ID, event.Timestamp); err != nil {
			return fmt.Errorf("unlock achievement %s: %w", a.ID, err)
		}
	}

	if c.Show {
		if err := c.showDocument(docPath); err != nil {
			fmt.Fprintf(os.Stderr, "Note: could not show document: %v\n", err)
		}
	}

	xpGained := stats.XPForEvent(event.Seconds)

	if c.globals != nil && c.globals.JSON {
		unlockedIDs := make([]string, len(fresh))
		for i, a := range fresh {
			unlockedIDs[i] = a.ID
		}
		out := map[string]interface{}{
			"id":          event.ID,
			"path":        event.Path,
			"category":    event.Category,
			"ts":          event.Timestamp.UTC().Format(time.RFC3339),
			"xp_gained":   xpGained,
			"xp_total":    summary.Level.XP,
			"level":       summary.Level.Level,
			"streak":      summary.Streak.Current,
			"new_unlocks": unlockedIDs,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("Recorded read %s (%s)\n", event.ID, event.Timestamp.Format("2006-01-02 15:04"))
	fmt.Printf("  Path:     %s\n", event.Path)
	fmt.Printf("  Category: %s\n", event.Category)
	if event.Seconds > 0 {
		fmt.Printf("  Spent:    %s\n", formatDurationHuman(spent))
	}
	fmt.Printf("  XP:       +%d (total %s, level %d)\n", xpGained, formatNumber(int64(summary.Level.XP)), summary.Level.Level)
	fmt.Printf("  Streak:   %d day(s)\n", summary.Streak.Current)

	for _, a := range fresh {
		fmt.Printf("\n\U0001F3C6 Achievement unlocked: %s — %s\n", a.Title, a.Description)
	}

	return nil
}

// showDocument prints the document body, rendered for the terminal when it
// is markdown.
func (c *ReadCommand) showDocument(docPath string) error {
	cfg := loadConfig(c.globals)

	resolved, err := resolveDocument(docPath, cfg)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return fmt.Errorf("read %s: %w", resolved, err)
	}

	ext := strings.ToLower(filepath.Ext(resolved))
	if ext != ".md" && ext != ".markdown" {
		fmt.Println(string(data))
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(cfg.Reader.WordWrap),
	)
	if err != nil {
		// Fall back to plain text when the renderer can't be built.
		fmt.Println(string(data))
		return nil
	}

	out, err := renderer.Render(string(data))
	if err != nil {
		fmt.Println(string(data))
		return nil
	}
	fmt.Print(out)

	return nil
}

// resolveDocument locates a document on disk. Paths that already point at a
// file are used as-is; otherwise the path is resolved against the library
// root, trying each configured extension when the path has none.
func resolveDocument(docPath string, cfg *config.Config) (string, error) {
	if _, err := os.Stat(docPath); err == nil {
		return docPath, nil
	}

	root, err := config.ExpandPath(cfg.Library.Root)
	if err != nil {
		return "", err
	}

	candidate := filepath.Join(root, docPath)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}

	if filepath.Ext(docPath) == "" {
		for _, ext := range cfg.Library.Extensions {
			if _, err := os.Stat(candidate + ext); err == nil {
				return candidate + ext, nil
			}
		}
	}

	return "", fmt.Errorf("document %s not found under %s", docPath, root)
}
