package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jmallek/lectern/internal/stats"
	"github.com/jmallek/lectern/internal/storage"
)

// Execute implements the go-flags Commander interface for AchievementsCommand.
func (c *AchievementsCommand) Execute(args []string) error {
	store, db, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store)
}

// executeWithStore lists achievements against a provided store (for testing).
func (c *AchievementsCommand) executeWithStore(store storage.Store) error {
	ctx := context.Background()

	unlocked, err := store.UnlockedAchievements(ctx)
	if err != nil {
		return fmt.Errorf("load achievements: %w", err)
	}

	catalog := stats.Catalog()

	if c.globals != nil && c.globals.JSON {
		return c.printJSON(catalog, unlocked)
	}

	fmt.Printf("Achievements (%d of %d unlocked)\n\n", len(unlocked), len(catalog))
	for _, a := range catalog {
		at, ok := unlocked[a.ID]
		if c.Locked && ok {
			continue
		}
		if ok {
			fmt.Printf("\U0001F3C6 %-16s %s — unlocked %s\n", a.Title, a.Description, at.Local().Format("2006-01-02"))
		} else {
			fmt.Printf("\U0001F512 %-16s %s\n", a.Title, a.Description)
		}
	}

	return nil
}

func (c *AchievementsCommand) printJSON(catalog []stats.Achievement, unlocked map[string]time.Time) error {
	type achievementJSON struct {
		stats.Achievement
		Unlocked   bool   `json:"unlocked"`
		UnlockedAt string `json:"unlocked_at,omitempty"`
	}

	out := struct {
		Unlocked     int               `json:"unlocked"`
		Total        int               `json:"total"`
		Achievements []achievementJSON `json:"achievements"`
	}{
		Unlocked:     len(unlocked),
		Total:        len(catalog),
		Achievements: make([]achievementJSON, 0, len(catalog)),
	}

	for _, a := range catalog {
		entry := achievementJSON{Achievement: a}
		if at, ok := unlocked[a.ID]; ok {
			if c.Locked {
				continue
			}
			entry.Unlocked = true
			entry.UnlockedAt = at.UTC().Format(time.RFC3339)
		}
		out.Achievements = append(out.Achievements, entry)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
