package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jmallek/lectern/internal/stats"
	"github.com/jmallek/lectern/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string              `json:"version"`
	DatabasePath      string              `json:"database_path"`
	DatabaseSizeBytes int64               `json:"database_size_bytes"`
	TotalReads        int64               `json:"total_reads"`
	TotalDocuments    int64               `json:"total_documents"`
	TotalSeconds      int64               `json:"total_seconds"`
	TodaySeconds      int                 `json:"today_seconds"`
	GoalMinutes       int                 `json:"goal_minutes"`
	OldestRead        string              `json:"oldest_read,omitempty"`
	NewestRead        string              `json:"newest_read,omitempty"`
	Level             stats.LevelInfo     `json:"level"`
	Streak            stats.StreakInfo    `json:"streak"`
	TopCategories     []categoryCountJSON `json:"top_categories"`
	TodosOpen         int                 `json:"todos_open"`
	TodosDone         int                 `json:"todos_done"`
	AchievementsDone  int                 `json:"achievements_unlocked"`
	AchievementsTotal int                 `json:"achievements_total"`
	DaemonRunning     bool                `json:"daemon_running"`
}

type categoryCountJSON struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	store, db, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store, db)
}

// executeWithStore runs status against a provided store and db (for testing).
func (c *StatusCommand) executeWithStore(store storage.Store, db *sql.DB) error {
	ctx := context.Background()

	totals, err := store.GetTotals(ctx)
	if err != nil {
		return fmt.Errorf("get totals: %w", err)
	}

	events, err := store.AllReads(ctx)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	todos, err := store.ListTodos(ctx, true)
	if err != nil {
		return fmt.Errorf("list todos: %w", err)
	}
	todosDone := 0
	for _, item := range todos {
		if item.Done {
			todosDone++
		}
	}
	todosOpen := len(todos) - todosDone

	unlocked, err := store.UnlockedAchievements(ctx)
	if err != nil {
		return fmt.Errorf("load achievements: %w", err)
	}

	now := time.Now()
	summary := stats.BuildSummary(events, todosDone, now)
	todaySeconds := secondsReadOn(events, now)

	dbPath, _ := resolveDBPath(c.globals)
	dbSize := databaseSize(db, dbPath)

	cfg := loadConfig(c.globals)
	daemonRunning := checkDaemon(cfg.Daemon.Host, cfg.Daemon.Port)

	st := statusReport{
		totals:        totals,
		summary:       summary,
		dbPath:        dbPath,
		dbSize:        dbSize,
		todosOpen:     todosOpen,
		todosDone:     todosDone,
		unlocked:      len(unlocked),
		daemonRunning: daemonRunning,
		todaySeconds:  todaySeconds,
		goalMinutes:   cfg.Goals.DailyMinutes,
	}

	if c.globals != nil && c.globals.JSON {
		return c.printJSON(st)
	}
	return c.printHuman(st)
}

// statusReport gathers everything the status command displays.
type statusReport struct {
	totals        *storage.Totals
	summary       *stats.Summary
	dbPath        string
	dbSize        int64
	todosOpen     int
	todosDone     int
	unlocked      int
	daemonRunning bool
	todaySeconds  int
	goalMinutes   int
}

// secondsReadOn sums time spent reading on the calendar day of ref.
func secondsReadOn(events []storage.ReadEvent, ref time.Time) int {
	y, m, d := ref.Date()
	total := 0
	for _, e := range events {
		ey, em, ed := e.Timestamp.In(ref.Location()).Date()
		if ey == y && em == m && ed == d {
			total += e.Seconds
		}
	}
	return total
}

func (c *StatusCommand) printHuman(st statusReport) error {
	fmt.Println("Lectern Status")
	fmt.Println("==============")
	fmt.Printf("Version:       %s\n", c.version)
	fmt.Printf("Database:      %s (%s)\n", st.dbPath, formatBytes(st.dbSize))
	fmt.Println()

	lvl := st.summary.Level
	span := lvl.NextAt - lvl.LevelFloor
	into := lvl.XP - lvl.LevelFloor
	fmt.Printf("Level:         %d (%s XP, %s to next)\n",
		lvl.Level, formatNumber(int64(lvl.XP)), formatNumber(int64(lvl.NextAt-lvl.XP)))
	fmt.Printf("Progress:      %s\n", progressBar(into, span, 24))
	fmt.Printf("Streak:        %d day(s) (longest %d)\n", st.summary.Streak.Current, st.summary.Streak.Longest)
	if st.goalMinutes > 0 {
		fmt.Printf("Today:         %d of %d min goal\n", st.todaySeconds/60, st.goalMinutes)
	}
	fmt.Println()

	fmt.Printf("Reads:         %s\n", formatNumber(st.totals.TotalReads))
	fmt.Printf("Documents:     %s\n", formatNumber(st.totals.TotalDocuments))
	fmt.Printf("Time read:     %s\n", formatDurationHuman(time.Duration(st.totals.TotalSeconds)*time.Second))

	if st.totals.TotalReads > 0 {
		fmt.Printf("Oldest:        %s\n", st.totals.OldestRead.Local().Format("2006-01-02"))
		fmt.Printf("Newest:        %s\n", st.totals.NewestRead.Local().Format("2006-01-02"))
	}

	if len(st.totals.TopCategories) > 0 {
		fmt.Println()
		fmt.Println("Top Categories:")
		for _, cc := range st.totals.TopCategories {
			fmt.Printf("  %-20s %s\n", cc.Category, formatNumber(cc.Count))
		}
	}

	fmt.Println()
	fmt.Printf("Reading list:  %d open, %d done\n", st.todosOpen, st.todosDone)
	fmt.Printf("Achievements:  %d of %d unlocked\n", st.unlocked, len(stats.Catalog()))

	fmt.Println()
	if st.daemonRunning {
		fmt.Println("Daemon:        running")
	} else {
		fmt.Println("Daemon:        not running")
	}

	return nil
}

func (c *StatusCommand) printJSON(st statusReport) error {
	out := statusJSON{
		Version:           c.version,
		DatabasePath:      st.dbPath,
		DatabaseSizeBytes: st.dbSize,
		TotalReads:        st.totals.TotalReads,
		TotalDocuments:    st.totals.TotalDocuments,
		TotalSeconds:      st.totals.TotalSeconds,
		TodaySeconds:      st.todaySeconds,
		GoalMinutes:       st.goalMinutes,
		Level:             st.summary.Level,
		Streak:            st.summary.Streak,
		TopCategories:     make([]categoryCountJSON, len(st.totals.TopCategories)),
		TodosOpen:         st.todosOpen,
		TodosDone:         st.todosDone,
		AchievementsDone:  st.unlocked,
		AchievementsTotal: len(stats.Catalog()),
		DaemonRunning:     st.daemonRunning,
	}

	if st.totals.TotalReads > 0 {
		out.OldestRead = st.totals.OldestRead.UTC().Format(time.RFC3339)
		out.NewestRead = st.totals.NewestRead.UTC().Format(time.RFC3339)
	}

	for i, cc := range st.totals.TopCategories {
		out.TopCategories[i] = categoryCountJSON{Category: cc.Category, Count: cc.Count}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// progressBar renders a fixed-width text bar for into/span progress.
func progressBar(into, span, width int) string {
	if span <= 0 {
		span = 1
	}
	if into < 0 {
		into = 0
	}
	if into > span {
		into = span
	}
	filled := into * width / span
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// databaseSize returns the database file size in bytes. For on-disk
// databases it uses os.Stat; for in-memory databases it queries
// page_count * page_size.
func databaseSize(db *sql.DB, dbPath string) int64 {
	if info, err := os.Stat(dbPath); err == nil {
		return info.Size()
	}

	var pageCount, pageSize int64
	if err := db.QueryRow("PRAGMA page_count").Scan(&pageCount); err != nil {
		return 0
	}
	if err := db.QueryRow("PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0
	}
	return pageCount * pageSize
}

// checkDaemon attempts an HTTP GET to the daemon status endpoint.
// Returns true if the daemon responds within 1 second.
func checkDaemon(host string, port int) bool {
	client := &http.Client{Timeout: 1 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://%s:%d/status", host, port))
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
