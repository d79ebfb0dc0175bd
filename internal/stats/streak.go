// Package stats computes reading analytics from the recorded event log:
// streaks, calendar buckets, category breakdowns, XP/levels, and achievement
// evaluation. Everything here is a pure function over in-memory slices; the
// storage layer owns persistence.
package stats

import (
	"sort"
	"time"

	"github.com/jmallek/lectern/internal/storage"
)

// StreakInfo holds the consecutive-day reading streaks.
type StreakInfo struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// dayOf truncates a time to its calendar day in the reference location.
func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// readDays returns the sorted set of distinct calendar days with at least
// one read, in the location of now.
func readDays(events []storage.ReadEvent, now time.Time) []time.Time {
	loc := now.Location()
	seen := make(map[time.Time]bool)
	for _, e := range events {
		seen[dayOf(e.Timestamp, loc)] = true
	}

	days := make([]time.Time, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// Streaks computes the current and longest consecutive-day streaks.
//
// The current streak is anchored at today when today has at least one read,
// otherwise at yesterday: reading yesterday but not yet today does not break
// the streak until the day ends. An empty history yields 0 for both.
func Streaks(events []storage.ReadEvent, now time.Time) StreakInfo {
	days := readDays(events, now)
	if len(days) == 0 {
		return StreakInfo{}
	}

	loc := now.Location()
	set := make(map[time.Time]bool, len(days))
	for _, d := range days {
		set[d] = true
	}

	// Current streak: walk backwards from the anchor day.
	anchor := dayOf(now, loc)
	if !set[anchor] {
		anchor = anchor.AddDate(0, 0, -1)
	}
	current := 0
	for d := anchor; set[d]; d = d.AddDate(0, 0, -1) {
		current++
	}

	// Longest streak: longest run anywhere in history. AddDate rather than
	// a 24h delta so DST transitions don't split a run.
	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, 1).Equal(days[i]) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	if current > longest {
		longest = current
	}

	return StreakInfo{Current: current, Longest: longest}
}
