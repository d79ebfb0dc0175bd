package cli

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmallek/lectern/internal/stats"
)

func TestAchievementsCommand_AllLocked(t *testing.T) {
	store, _ := openTestStore(t)

	cmd := &AchievementsCommand{globals: testGlobals(t)}
	output, err := captureOutput(t, func() error {
		return cmd.executeWithStore(store)
	})
	require.NoError(t, err)

	assert.Contains(t, output, "Achievements (0 of")
	assert.Contains(t, output, "First Page")
	assert.NotContains(t, output, "unlocked 20")
}

func TestAchievementsCommand_ShowsUnlockDate(t *testing.T) {
	store, _ := openTestStore(t)

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	_, err := store.UnlockAchievement(context.Background(), "first-read", at)
	require.NoError(t, err)

	cmd := &AchievementsCommand{globals: testGlobals(t)}
	output, err := captureOutput(t, func() error {
		return cmd.executeWithStore(store)
	})
	require.NoError(t, err)

	assert.Contains(t, output, "Achievements (1 of")
	assert.Contains(t, output, "unlocked 2026-03-01")
}

func TestAchievementsCommand_LockedFilter(t *testing.T) {
	store, _ := openTestStore(t)

	_, err := store.UnlockAchievement(context.Background(), "first-read", time.Now())
	require.NoError(t, err)

	cmd := &AchievementsCommand{Locked: true, globals: testGlobals(t)}
	output, err := captureOutput(t, func() error {
		return cmd.executeWithStore(store)
	})
	require.NoError(t, err)

	assert.NotContains(t, output, "First Page")
	assert.Contains(t, output, "Bookworm")
}

func TestAchievementsCommand_JSONOutput(t *testing.T) {
	store, _ := openTestStore(t)

	_, err := store.UnlockAchievement(context.Background(), "first-read",
		time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	globals := testGlobals(t)
	globals.JSON = true
	cmd := &AchievementsCommand{globals: globals}

	output, err := captureOutput(t, func() error {
		return cmd.executeWithStore(store)
	})
	require.NoError(t, err)

	var out struct {
		Unlocked     int `json:"unlocked"`
		Total        int `json:"total"`
		Achievements []struct {
			ID         string `json:"id"`
			Unlocked   bool   `json:"unlocked"`
			UnlockedAt string `json:"unlocked_at"`
		} `json:"achievements"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	assert.Equal(t, 1, out.Unlocked)
	assert.Equal(t, len(stats.Catalog()), out.Total)

	for _, entry := range out.Achievements {
		if entry.ID == "first-read" {
			assert.True(t, entry.Unlocked)
			assert.Equal(t, "2026-03-01T10:00:00Z", entry.UnlockedAt)
		}
	}
}
