package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmallek/lectern/internal/storage"
)

func TestCatalog_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, a := range Catalog() {
		assert.False(t, seen[a.ID], "duplicate achievement ID %s", a.ID)
		seen[a.ID] = true
		assert.NotEmpty(t, a.Title)
		assert.Greater(t, a.Threshold, 0)
	}
}

func TestEvaluate_FirstRead(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	summary := BuildSummary([]storage.ReadEvent{eventOn(now, 0)}, 0, now)

	satisfied := Evaluate(summary)

	ids := make([]string, len(satisfied))
	for i, a := range satisfied {
		ids[i] = a.ID
	}
	assert.Contains(t, ids, "first-read")
	assert.NotContains(t, ids, "reads-10")
}

func TestEvaluate_StreakUsesLongest(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	// Seven consecutive days ending three days ago: the current streak is
	// broken but the longest streak still satisfies the badge.
	var events []storage.ReadEvent
	for i := 3; i < 10; i++ {
		events = append(events, eventOn(now, i))
	}
	summary := BuildSummary(events, 0, now)
	require.Equal(t, 0, summary.Streak.Current)
	require.Equal(t, 7, summary.Streak.Longest)

	a := findAchievement(t, "streak-7")
	assert.True(t, a.Satisfied(summary))
}

func TestEvaluate_MinutesThreshold(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	e := eventOn(now, 0)
	e.Seconds = 3600
	summary := BuildSummary([]storage.ReadEvent{e}, 0, now)

	a := findAchievement(t, "minutes-60")
	assert.True(t, a.Satisfied(summary))

	b := findAchievement(t, "minutes-600")
	assert.False(t, b.Satisfied(summary))
}

func TestEvaluate_TodosDone(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	summary := BuildSummary(nil, 1, now)

	a := findAchievement(t, "todos-1")
	assert.True(t, a.Satisfied(summary))
}

func TestNewlyUnlocked_SkipsAlreadyUnlocked(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	summary := BuildSummary([]storage.ReadEvent{eventOn(now, 0)}, 1, now)

	already := map[string]time.Time{"first-read": now}
	fresh := NewlyUnlocked(already, summary)

	ids := make([]string, len(fresh))
	for i, a := range fresh {
		ids[i] = a.ID
	}
	assert.NotContains(t, ids, "first-read")
	assert.Contains(t, ids, "todos-1")
}

func TestNewlyUnlocked_EmptySummaryUnlocksNothing(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	summary := BuildSummary(nil, 0, now)

	assert.Empty(t, NewlyUnlocked(nil, summary))
}

func findAchievement(t *testing.T, id string) Achievement {
	t.Helper()
	for _, a := range Catalog() {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("achievement %s not in catalog", id)
	return Achievement{}
}
