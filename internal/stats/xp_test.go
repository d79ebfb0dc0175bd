package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmallek/lectern/internal/storage"
)

func TestXPForEvent(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    int
	}{
		{"no time recorded", 0, 10},
		{"under a minute", 59, 10},
		{"two minutes", 120, 12},
		{"negative clamps to base", -5, 10},
		{"bonus capped at one hour", 7200, 70},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, XPForEvent(tc.seconds))
		})
	}
}

func TestTotalXP(t *testing.T) {
	events := []storage.ReadEvent{
		{Seconds: 0},   // 10
		{Seconds: 120}, // 12
	}
	assert.Equal(t, 22, TotalXP(events))
}

func TestLevelForXP_Boundaries(t *testing.T) {
	tests := []struct {
		xp     int
		level  int
		nextAt int
	}{
		{0, 1, 100},
		{99, 1, 100},
		{100, 2, 300},
		{299, 2, 300},
		{300, 3, 600},
		{600, 4, 1000},
	}

	for _, tc := range tests {
		info := LevelForXP(tc.xp)
		assert.Equal(t, tc.level, info.Level, "level for %d XP", tc.xp)
		assert.Equal(t, tc.nextAt, info.NextAt, "next threshold for %d XP", tc.xp)
		assert.Equal(t, tc.xp, info.XP)
	}
}

func TestLevelForXP_NegativeClampsToZero(t *testing.T) {
	info := LevelForXP(-50)
	assert.Equal(t, 1, info.Level)
	assert.Equal(t, 0, info.XP)
}

func TestLevelForXP_FloorMatchesLevel(t *testing.T) {
	info := LevelForXP(450)
	assert.Equal(t, 3, info.Level)
	assert.Equal(t, 300, info.LevelFloor)
	assert.Equal(t, 600, info.NextAt)
}
