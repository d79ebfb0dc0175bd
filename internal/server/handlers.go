package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/jmallek/lectern/internal/stats"
	"github.com/jmallek/lectern/internal/storage"
)

// handleStatus reports daemon liveness and the headline totals.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	totals, err := s.store.GetTotals(r.Context())
	if err != nil {
		s.logger.Error("get totals", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "totals unavailable")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"version":         s.version,
		"total_reads":     totals.TotalReads,
		"total_documents": totals.TotalDocuments,
		"total_seconds":   totals.TotalSeconds,
	})
}

// statsResponse is the payload for GET /stats.
type statsResponse struct {
	Summary *stats.Summary      `json:"summary"`
	Daily   []stats.DayCount    `json:"daily"`
	Weekly  []stats.WeekBucket  `json:"weekly"`
	Monthly []stats.MonthBucket `json:"monthly"`
}

// handleStats returns the full analytics summary plus calendar buckets.
// Query params: days (default 30), weeks (default 8), months (default 6).
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	events, err := s.store.AllReads(ctx)
	if err != nil {
		s.logger.Error("load reads", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}

	todosDone, err := s.store.CountCompletedTodos(ctx)
	if err != nil {
		s.logger.Error("count todos", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "todos unavailable")
		return
	}

	now := s.now()
	days := queryInt(r, "days", 30)
	weeks := queryInt(r, "weeks", 8)
	months := queryInt(r, "months", 6)

	s.writeJSON(w, http.StatusOK, statsResponse{
		Summary: stats.BuildSummary(events, todosDone, now),
		Daily:   stats.DailyCounts(events, days, now),
		Weekly:  stats.WeeklyBuckets(events, weeks, now),
		Monthly: stats.MonthlyBuckets(events, months, now),
	})
}

type historyEntry struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Timestamp string `json:"timestamp"`
	Seconds   int    `json:"seconds"`
	Source    string `json:"source"`
}

// handleHistory lists recent read events. Query params: category, match,
// limit, offset, since (RFC 3339).
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := storage.HistoryQuery{
		Category: r.URL.Query().Get("category"),
		Match:    r.URL.Query().Get("match"),
		Limit:    queryInt(r, "limit", 50),
		Offset:   queryInt(r, "offset", 0),
	}
	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		since, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "since must be RFC 3339")
			return
		}
		q.Since = since
	}

	events, err := s.store.History(r.Context(), q)
	if err != nil {
		s.logger.Error("history", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}

	entries := make([]historyEntry, len(events))
	for i, e := range events {
		entries[i] = historyEntry{
			ID:        e.ID,
			Path:      e.Path,
			Title:     e.Title,
			Category:  e.Category,
			Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
			Seconds:   e.Seconds,
			Source:    e.Source,
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(entries),
		"results": entries,
	})
}

type achievementEntry struct {
	stats.Achievement
	Unlocked   bool   `json:"unlocked"`
	UnlockedAt string `json:"unlocked_at,omitempty"`
}

// handleAchievements lists the catalog with unlock state.
func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	unlocked, err := s.store.UnlockedAchievements(r.Context())
	if err != nil {
		s.logger.Error("achievements", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "achievements unavailable")
		return
	}

	catalog := stats.Catalog()
	entries := make([]achievementEntry, len(catalog))
	for i, a := range catalog {
		entries[i] = achievementEntry{Achievement: a}
		if at, ok := unlocked[a.ID]; ok {
			entries[i].Unlocked = true
			entries[i].UnlockedAt = at.UTC().Format(time.RFC3339)
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"unlocked":     len(unlocked),
		"total":        len(catalog),
		"achievements": entries,
	})
}

type todoEntry struct {
	ID      int64  `json:"id"`
	Path    string `json:"path"`
	Title   string `json:"title"`
	AddedAt string `json:"added_at"`
	Done    bool   `json:"done"`
	DoneAt  string `json:"done_at,omitempty"`
}

// handleTodos lists the reading list, completed items included.
func (s *Server) handleTodos(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListTodos(r.Context(), true)
	if err != nil {
		s.logger.Error("todos", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "todos unavailable")
		return
	}

	entries := make([]todoEntry, len(items))
	for i, item := range items {
		entries[i] = todoEntry{
			ID:      item.ID,
			Path:    item.Path,
			Title:   item.Title,
			AddedAt: item.AddedAt.UTC().Format(time.RFC3339),
			Done:    item.Done,
		}
		if item.Done {
			entries[i].DoneAt = item.DoneAt.UTC().Format(time.RFC3339)
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(entries),
		"todos": entries,
	})
}

type recordReadRequest struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Seconds int    `json:"seconds"`
	Source  string `json:"source"`
}

// handleRecordRead ingests one read event, awards XP, and reports any newly
// unlocked achievements.
func (s *Server) handleRecordRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req recordReadRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Path == "" {
		s.writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	if req.Seconds < 0 {
		s.writeError(w, http.StatusBadRequest, "seconds must be non-negative")
		return
	}

	source := req.Source
	if source == "" {
		source = "daemon"
	}

	before, err := s.store.UnlockedAchievements(ctx)
	if err != nil {
		s.logger.Error("achievements", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "achievements unavailable")
		return
	}

	event := &storage.ReadEvent{
		Path:      req.Path,
		Title:     req.Title,
		Seconds:   req.Seconds,
		Source:    source,
		Timestamp: s.now(),
	}
	if err := s.store.RecordRead(ctx, event); err != nil {
		s.logger.Error("record read", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "record failed")
		return
	}

	events, err := s.store.AllReads(ctx)
	if err != nil {
		s.logger.Error("load reads", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	todosDone, err := s.store.CountCompletedTodos(ctx)
	if err != nil {
		s.logger.Error("count todos", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "todos unavailable")
		return
	}

	summary := stats.BuildSummary(events, todosDone, s.now())
	fresh := stats.NewlyUnlocked(before, summary)
	unlockedIDs := make([]string, 0, len(fresh))
	for _, a := range fresh {
		if _, err := s.store.UnlockAchievement(ctx, a.ID, event.Timestamp); err != nil {
			s.logger.Error("unlock achievement", zap.String("id", a.ID), zap.Error(err))
			continue
		}
		unlockedIDs = append(unlockedIDs, a.ID)
	}

	s.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":          event.ID,
		"category":    event.Category,
		"xp_gained":   stats.XPForEvent(event.Seconds),
		"level":       summary.Level.Level,
		"streak":      summary.Streak.Current,
		"new_unlocks": unlockedIDs,
	})
}

// queryInt parses an integer query parameter with a default.
func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
