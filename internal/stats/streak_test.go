package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jmallek/lectern/internal/storage"
)

// eventOn builds a read event at noon on the given day offset from now.
func eventOn(now time.Time, daysAgo int) storage.ReadEvent {
	d := now.AddDate(0, 0, -daysAgo)
	ts := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, now.Location())
	return storage.ReadEvent{Path: "go/intro.md", Category: "go", Timestamp: ts}
}

func TestStreaks_EmptyHistory(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	s := Streaks(nil, now)

	assert.Equal(t, 0, s.Current)
	assert.Equal(t, 0, s.Longest)
}

func TestStreaks_SingleReadToday(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	events := []storage.ReadEvent{eventOn(now, 0)}

	s := Streaks(events, now)

	assert.Equal(t, 1, s.Current)
	assert.Equal(t, 1, s.Longest)
}

func TestStreaks_ConsecutiveDaysEndingToday(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	events := []storage.ReadEvent{
		eventOn(now, 0),
		eventOn(now, 1),
		eventOn(now, 2),
	}

	s := Streaks(events, now)

	assert.Equal(t, 3, s.Current)
	assert.Equal(t, 3, s.Longest)
}

func TestStreaks_YesterdayAnchorKeepsStreakAlive(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	events := []storage.ReadEvent{
		eventOn(now, 1),
		eventOn(now, 2),
	}

	s := Streaks(events, now)

	// No read yet today; the streak holds until the day ends.
	assert.Equal(t, 2, s.Current)
}

func TestStreaks_GapBreaksCurrentButNotLongest(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	events := []storage.ReadEvent{
		eventOn(now, 0),
		// gap on day -1 and -2
		eventOn(now, 3),
		eventOn(now, 4),
		eventOn(now, 5),
		eventOn(now, 6),
	}

	s := Streaks(events, now)

	assert.Equal(t, 1, s.Current)
	assert.Equal(t, 4, s.Longest)
}

func TestStreaks_TwoDayOldHistoryYieldsZeroCurrent(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	events := []storage.ReadEvent{
		eventOn(now, 2),
		eventOn(now, 3),
	}

	s := Streaks(events, now)

	assert.Equal(t, 0, s.Current)
	assert.Equal(t, 2, s.Longest)
}

func TestStreaks_MultipleReadsSameDayCountOnce(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	events := []storage.ReadEvent{
		eventOn(now, 0),
		eventOn(now, 0),
		eventOn(now, 0),
		eventOn(now, 1),
	}

	s := Streaks(events, now)

	assert.Equal(t, 2, s.Current)
	assert.Equal(t, 2, s.Longest)
}
