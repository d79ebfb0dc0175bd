package cli

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmallek/lectern/internal/storage"
)

func TestStatusCommand_EmptyDatabase(t *testing.T) {
	store, db := openTestStore(t)

	cmd := &StatusCommand{globals: testGlobals(t), version: "test"}
	output, err := captureOutput(t, func() error {
		return cmd.executeWithStore(store, db)
	})
	require.NoError(t, err)

	assert.Contains(t, output, "Lectern Status")
	assert.Contains(t, output, "Version:       test")
	assert.Contains(t, output, "Level:         1")
	assert.Contains(t, output, "Reads:         0")
	assert.Contains(t, output, "Reading list:  0 open, 0 done")
}

func TestStatusCommand_WithData(t *testing.T) {
	store, db := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordRead(ctx, &storage.ReadEvent{
		Path: "go/a.md", Seconds: 120, Timestamp: time.Now(),
	}))
	require.NoError(t, store.AddTodo(ctx, &storage.TodoItem{Path: "go/b.md"}))

	cmd := &StatusCommand{globals: testGlobals(t), version: "test"}
	output, err := captureOutput(t, func() error {
		return cmd.executeWithStore(store, db)
	})
	require.NoError(t, err)

	assert.Contains(t, output, "Reads:         1")
	assert.Contains(t, output, "Streak:        1 day(s)")
	assert.Contains(t, output, "Today:         2 of 15 min goal")
	assert.Contains(t, output, "Top Categories:")
	assert.Contains(t, output, "go")
	assert.Contains(t, output, "Reading list:  1 open, 0 done")
}

func TestStatusCommand_JSONOutput(t *testing.T) {
	store, db := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordRead(ctx, &storage.ReadEvent{
		Path: "go/a.md", Seconds: 600, Timestamp: time.Now(),
	}))

	globals := testGlobals(t)
	globals.JSON = true
	cmd := &StatusCommand{globals: globals, version: "test"}

	output, err := captureOutput(t, func() error {
		return cmd.executeWithStore(store, db)
	})
	require.NoError(t, err)

	var out statusJSON
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	assert.Equal(t, "test", out.Version)
	assert.Equal(t, int64(1), out.TotalReads)
	assert.Equal(t, int64(600), out.TotalSeconds)
	assert.Equal(t, 600, out.TodaySeconds)
	assert.Equal(t, 15, out.GoalMinutes)
	// 10 base + 10 minutes
	assert.Equal(t, 20, out.Level.XP)
	assert.Equal(t, 1, out.Streak.Current)
	assert.Equal(t, len(out.TopCategories), 1)
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "[----]", progressBar(0, 100, 4))
	assert.Equal(t, "[##--]", progressBar(50, 100, 4))
	assert.Equal(t, "[####]", progressBar(100, 100, 4))
	// Clamped inputs
	assert.Equal(t, "[####]", progressBar(150, 100, 4))
	assert.Equal(t, "[----]", progressBar(-5, 100, 4))
}
