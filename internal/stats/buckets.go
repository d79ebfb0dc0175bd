package stats

import (
	"time"

	"github.com/jmallek/lectern/internal/storage"
)

// DayCount is one cell of the reading heatmap.
type DayCount struct {
	Date    string `json:"date"` // "2006-01-02"
	Count   int    `json:"count"`
	Seconds int    `json:"seconds"`
}

// WeekBucket aggregates reads for one calendar week starting Monday.
type WeekBucket struct {
	Start   string `json:"start"` // Monday, "2006-01-02"
	Count   int    `json:"count"`
	Seconds int    `json:"seconds"`
}

// MonthBucket aggregates reads for one calendar month.
type MonthBucket struct {
	Month   string `json:"month"` // "2006-01"
	Count   int    `json:"count"`
	Seconds int    `json:"seconds"`
}

// DailyCounts buckets reads per calendar day for the last days days, ending
// today. Days without reads appear with zero counts, oldest first.
func DailyCounts(events []storage.ReadEvent, days int, now time.Time) []DayCount {
	if days <= 0 {
		return []DayCount{}
	}

	loc := now.Location()
	today := dayOf(now, loc)
	first := today.AddDate(0, 0, -(days - 1))

	index := make(map[string]int, days)
	out := make([]DayCount, days)
	for i := 0; i < days; i++ {
		d := first.AddDate(0, 0, i)
		key := d.Format("2006-01-02")
		index[key] = i
		out[i] = DayCount{Date: key}
	}

	for _, e := range events {
		key := dayOf(e.Timestamp, loc).Format("2006-01-02")
		if i, ok := index[key]; ok {
			out[i].Count++
			out[i].Seconds += e.Seconds
		}
	}

	return out
}

// weekStart returns the Monday of the week containing t.
func weekStart(t time.Time, loc *time.Location) time.Time {
	d := dayOf(t, loc)
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return d.AddDate(0, 0, -offset)
}

// WeeklyBuckets buckets reads per calendar week for the last weeks weeks,
// ending with the week containing now. Empty weeks appear with zero counts,
// oldest first.
func WeeklyBuckets(events []storage.ReadEvent, weeks int, now time.Time) []WeekBucket {
	if weeks <= 0 {
		return []WeekBucket{}
	}

	loc := now.Location()
	last := weekStart(now, loc)
	first := last.AddDate(0, 0, -7*(weeks-1))

	index := make(map[string]int, weeks)
	out := make([]WeekBucket, weeks)
	for i := 0; i < weeks; i++ {
		w := first.AddDate(0, 0, 7*i)
		key := w.Format("2006-01-02")
		index[key] = i
		out[i] = WeekBucket{Start: key}
	}

	for _, e := range events {
		key := weekStart(e.Timestamp, loc).Format("2006-01-02")
		if i, ok := index[key]; ok {
			out[i].Count++
			out[i].Seconds += e.Seconds
		}
	}

	return out
}

// MonthlyBuckets buckets reads per calendar month for the last months months,
// ending with the month containing now. Empty months appear with zero counts,
// oldest first.
func MonthlyBuckets(events []storage.ReadEvent, months int, now time.Time) []MonthBucket {
	if months <= 0 {
		return []MonthBucket{}
	}

	loc := now.Location()
	lastMonth := time.Date(now.In(loc).Year(), now.In(loc).Month(), 1, 0, 0, 0, 0, loc)
	first := lastMonth.AddDate(0, -(months - 1), 0)

	index := make(map[string]int, months)
	out := make([]MonthBucket, months)
	for i := 0; i < months; i++ {
		m := first.AddDate(0, i, 0)
		key := m.Format("2006-01")
		index[key] = i
		out[i] = MonthBucket{Month: key}
	}

	for _, e := range events {
		key := e.Timestamp.In(loc).Format("2006-01")
		if i, ok := index[key]; ok {
			out[i].Count++
			out[i].Seconds += e.Seconds
		}
	}

	return out
}
