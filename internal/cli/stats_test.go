package cli

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmallek/lectern/internal/stats"
	"github.com/jmallek/lectern/internal/storage"
)

func TestStatsCommand_HumanOutput(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	reads := []storage.ReadEvent{
		{Path: "go/a.md", Seconds: 300, Timestamp: now},
		{Path: "go/b.md", Seconds: 60, Timestamp: now.AddDate(0, 0, -1)},
		{Path: "sql/c.md", Timestamp: now.AddDate(0, 0, -2)},
	}
	for i := range reads {
		require.NoError(t, store.RecordRead(ctx, &reads[i]))
	}

	cmd := &StatsCommand{Weeks: 4, Days: 14, globals: testGlobals(t)}
	output, err := captureOutput(t, func() error {
		return cmd.executeWithStore(store, now)
	})
	require.NoError(t, err)

	assert.Contains(t, output, "Reading Stats")
	assert.Contains(t, output, "Reads:      3")
	assert.Contains(t, output, "Streak:     3 day(s)")
	assert.Contains(t, output, "Weekly (last 4 weeks):")
	assert.Contains(t, output, "Heatmap (last 14 days):")
	assert.Contains(t, output, "Categories:")
	assert.Contains(t, output, "go")
	assert.Contains(t, output, "67%")
	assert.Contains(t, output, "33%")
}

func TestStatsCommand_JSONOutput(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	require.NoError(t, store.RecordRead(ctx, &storage.ReadEvent{
		Path: "go/a.md", Seconds: 120, Timestamp: now,
	}))

	globals := testGlobals(t)
	globals.JSON = true
	cmd := &StatsCommand{Weeks: 2, Days: 7, globals: globals}

	output, err := captureOutput(t, func() error {
		return cmd.executeWithStore(store, now)
	})
	require.NoError(t, err)

	var out struct {
		Summary *stats.Summary     `json:"summary"`
		Daily   []stats.DayCount   `json:"daily"`
		Weekly  []stats.WeekBucket `json:"weekly"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	assert.Equal(t, 1, out.Summary.TotalReads)
	assert.Len(t, out.Daily, 7)
	assert.Len(t, out.Weekly, 2)
}

func TestHeatmapRow(t *testing.T) {
	daily := []stats.DayCount{
		{Date: "2026-03-01", Count: 0},
		{Date: "2026-03-02", Count: 1},
		{Date: "2026-03-03", Count: 4},
	}
	row := heatmapRow(daily)

	runes := []rune(row)
	require.Len(t, runes, 3)
	assert.Equal(t, '·', runes[0])
	assert.Equal(t, '░', runes[1])
	assert.Equal(t, '█', runes[2])
}

func TestHeatmapRow_UniformCounts(t *testing.T) {
	daily := []stats.DayCount{
		{Date: "2026-03-01", Count: 1},
		{Date: "2026-03-02", Count: 1},
	}
	assert.Equal(t, "██", heatmapRow(daily))
}
