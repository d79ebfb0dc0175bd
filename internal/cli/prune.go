package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jmallek/lectern/internal/storage"
)

// Execute implements the go-flags Commander interface for PruneCommand.
func (c *PruneCommand) Execute(args []string) error {
	store, db, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store)
}

// executeWithStore runs the prune against a provided store (for testing).
func (c *PruneCommand) executeWithStore(store storage.Store) error {
	retention := c.OlderThan
	if retention == "" {
		cfg := loadConfig(c.globals)
		if cfg.Retention.Days <= 0 {
			return fmt.Errorf("retention is disabled; pass --older-than to prune")
		}
		retention = fmt.Sprintf("%dd", cfg.Retention.Days)
	}

	dur, err := parseDuration(retention)
	if err != nil {
		return fmt.Errorf("invalid retention %q: %w", retention, err)
	}

	cutoff := time.Now().Add(-dur)
	ctx := context.Background()

	if c.DryRun {
		count, err := store.CountReadsBefore(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("count prunable reads: %w", err)
		}
		return c.report(count, cutoff, true)
	}

	pruned, err := store.PruneBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("prune reads: %w", err)
	}
	return c.report(pruned, cutoff, false)
}

func (c *PruneCommand) report(count int64, cutoff time.Time, dryRun bool) error {
	if c.globals != nil && c.globals.JSON {
		out := map[string]interface{}{
			"pruned":  count,
			"cutoff":  cutoff.UTC().Format(time.RFC3339),
			"dry_run": dryRun,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	readWord := "reads"
	if count == 1 {
		readWord = "read"
	}
	if dryRun {
		fmt.Printf("Would prune %s %s older than %s (dry run)\n",
			formatNumber(count), readWord, cutoff.Local().Format("2006-01-02"))
	} else {
		fmt.Printf("Pruned %s %s older than %s\n",
			formatNumber(count), readWord, cutoff.Local().Format("2006-01-02"))
	}

	return nil
}
