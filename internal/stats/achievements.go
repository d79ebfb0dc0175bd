package stats

import "time"

// Metric identifies the summary value an achievement threshold applies to.
type Metric string

const (
	MetricReads      Metric = "reads"      // total read events
	MetricStreak     Metric = "streak"     // longest consecutive-day streak
	MetricCategories Metric = "categories" // distinct categories read
	MetricDocuments  Metric = "documents"  // distinct documents read
	MetricMinutes    Metric = "minutes"    // total minutes spent reading
	MetricTodosDone  Metric = "todos_done" // reading-list items completed
)

// Achievement is a threshold-triggered badge.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Metric      Metric `json:"metric"`
	Threshold   int    `json:"threshold"`
}

// Catalog returns the full curated achievement list, in display order.
func Catalog() []Achievement {
	return []Achievement{
		// Read counts
		{"first-read", "First Page", "Record your first read", MetricReads, 1},
		{"reads-10", "Bookworm", "Record 10 reads", MetricReads, 10},
		{"reads-50", "Page Turner", "Record 50 reads", MetricReads, 50},
		{"reads-100", "Librarian", "Record 100 reads", MetricReads, 100},
		{"reads-500", "Archivist", "Record 500 reads", MetricReads, 500},

		// Streaks
		{"streak-3", "Warming Up", "Read 3 days in a row", MetricStreak, 3},
		{"streak-7", "Weekly Rhythm", "Read 7 days in a row", MetricStreak, 7},
		{"streak-30", "Unstoppable", "Read 30 days in a row", MetricStreak, 30},

		// Breadth
		{"categories-3", "Curious", "Read from 3 different categories", MetricCategories, 3},
		{"categories-5", "Explorer", "Read from 5 different categories", MetricCategories, 5},
		{"documents-25", "Well Read", "Read 25 different documents", MetricDocuments, 25},

		// Time spent
		{"minutes-60", "Deep Dive", "Spend an hour reading in total", MetricMinutes, 60},
		{"minutes-600", "Scholar", "Spend 10 hours reading in total", MetricMinutes, 600},

		// Reading list
		{"todos-1", "Checked Off", "Complete a reading-list item", MetricTodosDone, 1},
		{"todos-10", "List Crusher", "Complete 10 reading-list items", MetricTodosDone, 10},
	}
}

// value extracts the metric an achievement is judged against.
func (a Achievement) value(s *Summary) int {
	switch a.Metric {
	case MetricReads:
		return s.TotalReads
	case MetricStreak:
		return s.Streak.Longest
	case MetricCategories:
		return s.DistinctCategories
	case MetricDocuments:
		return s.DistinctDocuments
	case MetricMinutes:
		return s.TotalSeconds / 60
	case MetricTodosDone:
		return s.TodosCompleted
	default:
		return 0
	}
}

// Satisfied reports whether the summary meets the achievement's threshold.
func (a Achievement) Satisfied(s *Summary) bool {
	return a.value(s) >= a.Threshold
}

// Evaluate returns every catalog achievement whose threshold the summary
// meets. Persistence of unlocks is the caller's job; an achievement once
// persisted stays unlocked even if the metric later drops.
func Evaluate(s *Summary) []Achievement {
	var satisfied []Achievement
	for _, a := range Catalog() {
		if a.Satisfied(s) {
			satisfied = append(satisfied, a)
		}
	}
	return satisfied
}

// NewlyUnlocked returns the satisfied achievements whose IDs are not yet in
// the already-unlocked set, in catalog order.
func NewlyUnlocked(unlocked map[string]time.Time, s *Summary) []Achievement {
	var fresh []Achievement
	for _, a := range Evaluate(s) {
		if _, ok := unlocked[a.ID]; !ok {
			fresh = append(fresh, a)
		}
	}
	return fresh
}
