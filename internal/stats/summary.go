package stats

import (
	"time"

	"github.com/jmallek/lectern/internal/storage"
)

// Summary bundles every derived reading metric for one pass over the log.
type Summary struct {
	TotalReads         int             `json:"total_reads"`
	TotalSeconds       int             `json:"total_seconds"`
	DistinctDocuments  int             `json:"distinct_documents"`
	DistinctCategories int             `json:"distinct_categories"`
	TodosCompleted     int             `json:"todos_completed"`
	Streak             StreakInfo      `json:"streak"`
	Level              LevelInfo       `json:"level"`
	Categories         []CategoryShare `json:"categories"`
}

// BuildSummary aggregates the full event log into a Summary. todosCompleted
// comes from the reading list; now anchors streak and bucket calendars.
func BuildSummary(events []storage.ReadEvent, todosCompleted int, now time.Time) *Summary {
	totalSeconds := 0
	for _, e := range events {
		totalSeconds += e.Seconds
	}

	return &Summary{
		TotalReads:         len(events),
		TotalSeconds:       totalSeconds,
		DistinctDocuments:  DistinctDocuments(events),
		DistinctCategories: DistinctCategories(events),
		TodosCompleted:     todosCompleted,
		Streak:             Streaks(events, now),
		Level:              LevelForXP(TotalXP(events)),
		Categories:         CategoryBreakdown(events),
	}
}
