package storage

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
	"time"
)

// Store defines the interface for lectern data operations.
type Store interface {
	RecordRead(ctx context.Context, event *ReadEvent) error
	GetDocument(ctx context.Context, docPath string) (*Document, error)
	History(ctx context.Context, query HistoryQuery) ([]ReadEvent, error)
	AllReads(ctx context.Context) ([]ReadEvent, error)
	GetTotals(ctx context.Context) (*Totals, error)
	AddTodo(ctx context.Context, item *TodoItem) error
	ListTodos(ctx context.Context, includeDone bool) ([]TodoItem, error)
	CompleteTodo(ctx context.Context, id int64) error
	RemoveTodo(ctx context.Context, id int64) error
	CountCompletedTodos(ctx context.Context) (int, error)
	UnlockAchievement(ctx context.Context, id string, at time.Time) (bool, error)
	UnlockedAchievements(ctx context.Context) (map[string]time.Time, error)
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	CountReadsBefore(ctx context.Context, olderThan time.Time) (int64, error)
	PruneBefore(ctx context.Context, olderThan time.Time) (int64, error)
	Reset(ctx context.Context) error
	Close() error
}

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB

	// Prepared statements
	getDocument  *sql.Stmt
	insertTodo   *sql.Stmt
	completeTodo *sql.Stmt
	removeTodo   *sql.Stmt
	getSetting   *sql.Stmt
	setSetting   *sql.Stmt
}

// NewSQLiteStore creates a new SQLiteStore from an already-opened and migrated database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.getDocument, err = s.db.Prepare(`
		SELECT path, title, category, first_read_at, last_read_at, total_seconds, read_count
		FROM documents WHERE path = ?
	`)
	if err != nil {
		return err
	}

	s.insertTodo, err = s.db.Prepare(`
		INSERT INTO todos (path, title, added_at) VALUES (?, ?, ?)
	`)
	if err != nil {
		return err
	}

	s.completeTodo, err = s.db.Prepare(`
		UPDATE todos SET done = 1, done_at = ? WHERE id = ? AND done = 0
	`)
	if err != nil {
		return err
	}

	s.removeTodo, err = s.db.Prepare(`DELETE FROM todos WHERE id = ?`)
	if err != nil {
		return err
	}

	s.getSetting, err = s.db.Prepare(`SELECT value FROM settings WHERE key = ?`)
	if err != nil {
		return err
	}

	s.setSetting, err = s.db.Prepare(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)
	if err != nil {
		return err
	}

	return nil
}

// generateID creates a lectern read event ID: RD- + 8 random hex chars.
func generateID() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "RD-" + hex.EncodeToString(b), nil
}

// parseTimestamp tries several common SQLite timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05.999999999-07:00",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}

// CategoryOf derives the topic category from a document path: the first
// segment of the cleaned, slash-normalized relative path. Bare filenames
// fall into "general".
func CategoryOf(docPath string) string {
	p := path.Clean(strings.ReplaceAll(docPath, "\\", "/"))
	p = strings.TrimPrefix(p, "/")
	if p == "" || p == "." {
		return "general"
	}
	if i := strings.IndexByte(p, '/'); i > 0 {
		return p[:i]
	}
	return "general"
}

// RecordRead inserts a new read event and upserts the per-document aggregate
// in a single transaction. The event's ID and Category fields are populated
// automatically.
func (s *SQLiteStore) RecordRead(ctx context.Context, event *ReadEvent) error {
	if event.Path == "" {
		return fmt.Errorf("read event requires a path")
	}
	if event.Seconds < 0 {
		return fmt.Errorf("read event seconds must be non-negative")
	}

	event.Category = CategoryOf(event.Path)

	id, err := generateID()
	if err != nil {
		return fmt.Errorf("generate ID: %w", err)
	}
	event.ID = id

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Source == "" {
		event.Source = "cli"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	tsFormatted := event.Timestamp.UTC().Format(time.RFC3339)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO reads (id, path, title, category, ts, seconds, source)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Path, event.Title, event.Category,
		tsFormatted, event.Seconds, event.Source,
	)
	if err != nil {
		return fmt.Errorf("insert read: %w", err)
	}

	// Create the document aggregate on first read, update it on each read.
	// A later empty title never clobbers an existing one.
	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (path, title, category, first_read_at, last_read_at, total_seconds, read_count)
		 VALUES (?, ?, ?, ?, ?, ?, 1)
		 ON CONFLICT(path) DO UPDATE SET
			title         = CASE WHEN excluded.title != '' THEN excluded.title ELSE documents.title END,
			last_read_at  = excluded.last_read_at,
			total_seconds = documents.total_seconds + excluded.total_seconds,
			read_count    = documents.read_count + 1`,
		event.Path, event.Title, event.Category,
		tsFormatted, tsFormatted, event.Seconds,
	)
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}

	return tx.Commit()
}

// GetDocument retrieves the aggregate for a single document path.
func (s *SQLiteStore) GetDocument(ctx context.Context, docPath string) (*Document, error) {
	var d Document
	var firstStr, lastStr string

	err := s.getDocument.QueryRowContext(ctx, docPath).Scan(
		&d.Path, &d.Title, &d.Category, &firstStr, &lastStr, &d.TotalSeconds, &d.ReadCount,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("document %s not found", docPath)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	d.FirstReadAt, _ = parseTimestamp(firstStr)
	d.LastReadAt, _ = parseTimestamp(lastStr)

	return &d, nil
}

// History queries read events with optional filters, newest first.
func (s *SQLiteStore) History(ctx context.Context, q HistoryQuery) ([]ReadEvent, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}

	var clauses []string
	var args []interface{}

	if q.Match != "" {
		clauses = append(clauses, "(path LIKE ? OR title LIKE ?)")
		pattern := "%" + q.Match + "%"
		args = append(args, pattern, pattern)
	}
	if q.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, q.Category)
	}
	if !q.Since.IsZero() {
		clauses = append(clauses, "ts >= ?")
		args = append(args, q.Since.UTC().Format(time.RFC3339))
	}
	if !q.Until.IsZero() {
		clauses = append(clauses, "ts <= ?")
		args = append(args, q.Until.UTC().Format(time.RFC3339))
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	query := `SELECT id, path, title, category, ts, seconds, source FROM reads` +
		where + " ORDER BY ts DESC LIMIT ? OFFSET ?"
	args = append(args, q.Limit, q.Offset)

	return s.scanReads(ctx, query, args...)
}

// AllReads returns every read event ordered oldest first. The stats layer
// consumes this; a single user's history stays small enough to aggregate
// in memory.
func (s *SQLiteStore) AllReads(ctx context.Context) ([]ReadEvent, error) {
	return s.scanReads(ctx,
		`SELECT id, path, title, category, ts, seconds, source FROM reads ORDER BY ts ASC`,
	)
}

// scanReads executes a query and scans results into ReadEvent slices.
func (s *SQLiteStore) scanReads(ctx context.Context, query string, args ...interface{}) ([]ReadEvent, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reads: %w", err)
	}
	defer rows.Close()

	var events []ReadEvent
	for rows.Next() {
		var e ReadEvent
		var tsStr string
		if err := rows.Scan(
			&e.ID, &e.Path, &e.Title, &e.Category, &tsStr, &e.Seconds, &e.Source,
		); err != nil {
			return nil, fmt.Errorf("scan read: %w", err)
		}
		e.Timestamp, _ = parseTimestamp(tsStr)
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Return empty slice rather than nil
	if events == nil {
		events = []ReadEvent{}
	}

	return events, nil
}

// GetTotals returns aggregate statistics about the database.
func (s *SQLiteStore) GetTotals(ctx context.Context) (*Totals, error) {
	totals := &Totals{}

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(seconds), 0) FROM reads",
	).Scan(&totals.TotalReads, &totals.TotalSeconds)
	if err != nil {
		return nil, fmt.Errorf("count reads: %w", err)
	}

	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&totals.TotalDocuments)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	// Oldest and newest (handle empty DB)
	if totals.TotalReads > 0 {
		var oldestStr, newestStr string
		err = s.db.QueryRowContext(ctx, "SELECT MIN(ts), MAX(ts) FROM reads").Scan(&oldestStr, &newestStr)
		if err != nil {
			return nil, fmt.Errorf("read time range: %w", err)
		}
		totals.OldestRead, _ = parseTimestamp(oldestStr)
		totals.NewestRead, _ = parseTimestamp(newestStr)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT category, COUNT(*) as cnt FROM reads GROUP BY category ORDER BY cnt DESC LIMIT 10",
	)
	if err != nil {
		return nil, fmt.Errorf("top categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cc CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			return nil, err
		}
		totals.TopCategories = append(totals.TopCategories, cc)
	}

	return totals, rows.Err()
}

// AddTodo appends an item to the reading list. The item's ID and AddedAt
// fields are populated.
func (s *SQLiteStore) AddTodo(ctx context.Context, item *TodoItem) error {
	if item.Path == "" {
		return fmt.Errorf("todo item requires a path")
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}

	res, err := s.insertTodo.ExecContext(ctx,
		item.Path, item.Title, item.AddedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}

	item.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("todo ID: %w", err)
	}

	return nil
}

// ListTodos returns reading-list items, open items first, oldest first
// within each group.
func (s *SQLiteStore) ListTodos(ctx context.Context, includeDone bool) ([]TodoItem, error) {
	query := `SELECT id, path, title, added_at, done, done_at FROM todos`
	if !includeDone {
		query += ` WHERE done = 0`
	}
	query += ` ORDER BY done ASC, added_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	var items []TodoItem
	for rows.Next() {
		var item TodoItem
		var addedStr string
		var doneStr sql.NullString
		if err := rows.Scan(&item.ID, &item.Path, &item.Title, &addedStr, &item.Done, &doneStr); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		item.AddedAt, _ = parseTimestamp(addedStr)
		if doneStr.Valid {
			item.DoneAt, _ = parseTimestamp(doneStr.String)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if items == nil {
		items = []TodoItem{}
	}

	return items, nil
}

// CompleteTodo marks exactly one open item as done. Completing an already
// completed or unknown item is an error.
func (s *SQLiteStore) CompleteTodo(ctx context.Context, id int64) error {
	res, err := s.completeTodo.ExecContext(ctx, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("complete todo: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("open todo %d not found", id)
	}

	return nil
}

// RemoveTodo deletes a reading-list item by ID.
func (s *SQLiteStore) RemoveTodo(ctx context.Context, id int64) error {
	res, err := s.removeTodo.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("remove todo: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("todo %d not found", id)
	}

	return nil
}

// CountCompletedTodos returns the number of reading-list items marked done.
func (s *SQLiteStore) CountCompletedTodos(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM todos WHERE done = 1").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count completed todos: %w", err)
	}
	return count, nil
}

// UnlockAchievement records an achievement unlock. Returns true if the
// achievement was newly unlocked, false if it was already recorded. Unlocks
// are never revoked.
func (s *SQLiteStore) UnlockAchievement(ctx context.Context, id string, at time.Time) (bool, error) {
	if at.IsZero() {
		at = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO achievements (id, unlocked_at) VALUES (?, ?)",
		id, at.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("unlock achievement: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UnlockedAchievements returns all unlocked achievement IDs with their
// unlock timestamps.
func (s *SQLiteStore) UnlockedAchievements(ctx context.Context) (map[string]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, unlocked_at FROM achievements")
	if err != nil {
		return nil, fmt.Errorf("query achievements: %w", err)
	}
	defer rows.Close()

	unlocked := make(map[string]time.Time)
	for rows.Next() {
		var id, tsStr string
		if err := rows.Scan(&id, &tsStr); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		ts, _ := parseTimestamp(tsStr)
		unlocked[id] = ts
	}

	return unlocked, rows.Err()
}

// GetSetting returns the stored value for a preference key, or "" when the
// key is absent.
func (s *SQLiteStore) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.getSetting.QueryRowContext(ctx, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("get setting: %w", err)
	}
	return value, nil
}

// SetSetting stores a preference key/value pair, overwriting any previous value.
func (s *SQLiteStore) SetSetting(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("setting key must not be empty")
	}
	_, err := s.setSetting.ExecContext(ctx, key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}

// CountReadsBefore counts read events older than the given time without
// deleting anything. Used by prune --dry-run.
func (s *SQLiteStore) CountReadsBefore(ctx context.Context, olderThan time.Time) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reads WHERE ts < ?",
		olderThan.UTC().Format(time.RFC3339),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count reads: %w", err)
	}
	return count, nil
}

// PruneBefore deletes read events with timestamps before olderThan.
// Document aggregates and unlocked achievements survive pruning.
func (s *SQLiteStore) PruneBefore(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM reads WHERE ts < ?",
		olderThan.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("prune reads: %w", err)
	}

	return res.RowsAffected()
}

// Reset deletes all lectern data: reads, documents, todos, achievements,
// and settings.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	stmts := []string{
		"DELETE FROM reads",
		"DELETE FROM documents",
		"DELETE FROM todos",
		"DELETE FROM achievements",
		"DELETE FROM settings",
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("reset (%s): %w", stmt, err)
		}
	}
	return nil
}

// Close releases all prepared statements. The underlying *sql.DB is not
// closed; that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{
		s.getDocument, s.insertTodo, s.completeTodo,
		s.removeTodo, s.getSetting, s.setSetting,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
