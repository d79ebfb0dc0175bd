package storage

import "time"

// ReadEvent represents a single reading session recorded by lectern.
type ReadEvent struct {
	ID        string
	Path      string
	Title     string
	Category  string
	Timestamp time.Time
	Seconds   int    // time spent reading, in seconds
	Source    string // "cli", "daemon", "import"
}

// Document is the per-path aggregate maintained across read events.
type Document struct {
	Path         string
	Title        string
	Category     string
	FirstReadAt  time.Time
	LastReadAt   time.Time
	TotalSeconds int
	ReadCount    int
}

// TodoItem is an entry on the reading list.
type TodoItem struct {
	ID      int64
	Path    string
	Title   string
	AddedAt time.Time
	Done    bool
	DoneAt  time.Time // zero unless Done
}

// HistoryQuery defines filters for listing read events.
type HistoryQuery struct {
	Match    string // substring match against path and title
	Category string
	Since    time.Time
	Until    time.Time
	Limit    int
	Offset   int
}

// Totals holds aggregate statistics about the lectern database.
type Totals struct {
	TotalReads     int64
	TotalDocuments int64
	TotalSeconds   int64
	OldestRead     time.Time
	NewestRead     time.Time
	TopCategories  []CategoryCount
}

// CategoryCount pairs a category with its read count.
type CategoryCount struct {
	Category string
	Count    int64
}
