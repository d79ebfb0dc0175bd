package stats

import "github.com/jmallek/lectern/internal/storage"

// XP tuning. Each read is worth a base amount plus one point per full minute
// spent, with the time bonus capped so a single marathon session can't
// outweigh consistent reading.
const (
	xpPerRead   = 10
	xpPerMinute = 1
	xpMinuteCap = 60
	levelUnit   = 50 // cumulative XP for level n+1 is levelUnit*n*(n+1)
)

// LevelInfo describes the reader's level derived from total XP.
type LevelInfo struct {
	Level      int `json:"level"`
	XP         int `json:"xp"`
	LevelFloor int `json:"level_floor"` // XP at which the current level began
	NextAt     int `json:"next_at"`     // XP needed to reach the next level
}

// XPForEvent returns the XP awarded for a single read event.
func XPForEvent(seconds int) int {
	if seconds < 0 {
		seconds = 0
	}
	bonus := (seconds / 60) * xpPerMinute
	if bonus > xpMinuteCap {
		bonus = xpMinuteCap
	}
	return xpPerRead + bonus
}

// TotalXP sums XP across all read events.
func TotalXP(events []storage.ReadEvent) int {
	total := 0
	for _, e := range events {
		total += XPForEvent(e.Seconds)
	}
	return total
}

// xpForLevel returns the cumulative XP required to reach a given level.
// Level 1 starts at 0; level 2 at 100; level 3 at 300; level 4 at 600.
func xpForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	n := level - 1
	return levelUnit * n * (n + 1)
}

// LevelForXP computes the level and progress boundaries for a given XP total.
func LevelForXP(xp int) LevelInfo {
	if xp < 0 {
		xp = 0
	}

	level := 1
	for xp >= xpForLevel(level+1) {
		level++
	}

	return LevelInfo{
		Level:      level,
		XP:         xp,
		LevelFloor: xpForLevel(level),
		NextAt:     xpForLevel(level + 1),
	}
}
