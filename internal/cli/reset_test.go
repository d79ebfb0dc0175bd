package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmallek/lectern/internal/storage"
)

func TestResetCommand_WipesStore(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordRead(ctx, &storage.ReadEvent{Path: "go/a.md"}))
	require.NoError(t, store.AddTodo(ctx, &storage.TodoItem{Path: "go/b.md"}))
	_, err := store.UnlockAchievement(ctx, "first-read", time.Now())
	require.NoError(t, err)

	cmd := &ResetCommand{All: true, Force: true, globals: testGlobals(t)}
	output, err := captureOutput(t, func() error {
		return cmd.executeWithStore(store)
	})
	require.NoError(t, err)
	assert.Contains(t, output, "Reset complete")

	events, err := store.AllReads(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)

	todos, err := store.ListTodos(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, todos)

	unlocked, err := store.UnlockedAchievements(ctx)
	require.NoError(t, err)
	assert.Empty(t, unlocked)
}

func TestResetCommand_RequiresAllFlag(t *testing.T) {
	cmd := &ResetCommand{globals: testGlobals(t)}
	err := cmd.Execute(nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "--all")
}
