package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jmallek/lectern/internal/stats"
	"github.com/jmallek/lectern/internal/storage"
)

// Execute implements the go-flags Commander interface for StatsCommand.
func (c *StatsCommand) Execute(args []string) error {
	store, db, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store, time.Now())
}

// executeWithStore runs the analytics against a provided store and reference
// clock (for testing).
func (c *StatsCommand) executeWithStore(store storage.Store, now time.Time) error {
	ctx := context.Background()

	events, err := store.AllReads(ctx)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	todosDone, err := store.CountCompletedTodos(ctx)
	if err != nil {
		return fmt.Errorf("count todos: %w", err)
	}

	summary := stats.BuildSummary(events, todosDone, now)
	daily := stats.DailyCounts(events, c.Days, now)
	weekly := stats.WeeklyBuckets(events, c.Weeks, now)

	if c.globals != nil && c.globals.JSON {
		out := struct {
			Summary *stats.Summary     `json:"summary"`
			Daily   []stats.DayCount   `json:"daily"`
			Weekly  []stats.WeekBucket `json:"weekly"`
		}{summary, daily, weekly}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	c.printHuman(summary, daily, weekly)
	return nil
}

func (c *StatsCommand) printHuman(summary *stats.Summary, daily []stats.DayCount, weekly []stats.WeekBucket) {
	fmt.Println("Reading Stats")
	fmt.Println("=============")
	fmt.Printf("Reads:      %s\n", formatNumber(int64(summary.TotalReads)))
	fmt.Printf("Documents:  %s\n", formatNumber(int64(summary.DistinctDocuments)))
	fmt.Printf("Time read:  %s\n", formatDurationHuman(time.Duration(summary.TotalSeconds)*time.Second))
	fmt.Printf("Level:      %d (%s XP)\n", summary.Level.Level, formatNumber(int64(summary.Level.XP)))
	fmt.Printf("Streak:     %d day(s) (longest %d)\n", summary.Streak.Current, summary.Streak.Longest)

	if len(weekly) > 0 {
		fmt.Println()
		fmt.Printf("Weekly (last %d weeks):\n", len(weekly))
		maxCount := 0
		for _, w := range weekly {
			if w.Count > maxCount {
				maxCount = w.Count
			}
		}
		for _, w := range weekly {
			bar := ""
			if maxCount > 0 {
				bar = strings.Repeat("█", w.Count*24/maxCount)
			}
			fmt.Printf("  %s %-24s %d\n", w.Start, bar, w.Count)
		}
	}

	if len(daily) > 0 {
		fmt.Println()
		fmt.Printf("Heatmap (last %d days):\n", len(daily))
		fmt.Printf("  %s\n", heatmapRow(daily))
	}

	if len(summary.Categories) > 0 {
		fmt.Println()
		fmt.Println("Categories:")
		for _, share := range summary.Categories {
			fmt.Printf("  %-20s %3d%%  (%d)\n", share.Category, share.Percent, share.Count)
		}
	}
}

// heatmapRow renders daily counts as a single row of intensity glyphs,
// oldest day first.
func heatmapRow(daily []stats.DayCount) string {
	glyphs := []rune{'·', '░', '▒', '▓', '█'}

	maxCount := 0
	for _, d := range daily {
		if d.Count > maxCount {
			maxCount = d.Count
		}
	}

	var b strings.Builder
	for _, d := range daily {
		switch {
		case d.Count == 0:
			b.WriteRune(glyphs[0])
		case maxCount <= 1:
			b.WriteRune(glyphs[4])
		default:
			// Scale 1..max onto the four non-empty glyphs.
			idx := 1 + (d.Count-1)*3/(maxCount-1)
			b.WriteRune(glyphs[idx])
		}
	}
	return b.String()
}
