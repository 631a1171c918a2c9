package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"lookback/internal/timeutil"
)

// timeKey is the canonical column format used for range queries. Fixed width,
// so lexicographic order matches chronological order.
const timeKey = "2006-01-02 15:04:05"

// Store is the SQLite-backed record store. Records keep their original
// timestamp encodings; a normalized key column is maintained alongside so
// range queries stay in SQL.
type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return s, nil
}

func (s *Store) init() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS screenshots (
			id TEXT PRIMARY KEY,
			timestamp NOT NULL,
			captured_at DATETIME NOT NULL,
			app_name TEXT,
			window_title TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			duration_seconds INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS summaries (
			id TEXT PRIMARY KEY,
			project TEXT,
			summary TEXT,
			start_time,
			end_time,
			started_at DATETIME,
			screenshot_ids TEXT NOT NULL DEFAULT '[]'
		);`,
		`CREATE INDEX IF NOT EXISTS idx_screenshots_captured_at ON screenshots(captured_at);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at);`,
		`CREATE INDEX IF NOT EXISTS idx_summaries_started_at ON summaries(started_at);`,
		`CREATE INDEX IF NOT EXISTS idx_summaries_project ON summaries(project);`,
	}

	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveScreenshot inserts one screenshot record. A missing id is minted here.
// The timestamp must be normalizable; rejecting it at write time keeps the
// store free of rows that no range query could place.
func (s *Store) SaveScreenshot(rec *Screenshot) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	captured, err := timeutil.Parse(rec.Timestamp)
	if err != nil {
		return fmt.Errorf("screenshot %s: %w", rec.ID, err)
	}

	_, err = s.db.Exec(
		`INSERT INTO screenshots (id, timestamp, captured_at, app_name, window_title) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Timestamp, captured.Format(timeKey), rec.AppName, rec.WindowTitle,
	)
	if err != nil {
		return fmt.Errorf("failed to save screenshot: %w", err)
	}
	return nil
}

func (s *Store) SaveSession(rec *Session) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	started, err := timeutil.Parse(rec.StartTime)
	if err != nil {
		return fmt.Errorf("session %s: %w", rec.ID, err)
	}

	_, err = s.db.Exec(
		`INSERT INTO sessions (id, started_at, duration_seconds) VALUES (?, ?, ?)`,
		rec.ID, started.Format(timeKey), rec.DurationSeconds,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// SaveSummary inserts one summary record. A summary whose start time cannot
// be normalized is still stored, but without a range key, so it will not
// appear in range queries.
func (s *Store) SaveSummary(rec *Summary) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	var startedKey any
	if started, err := timeutil.Parse(rec.StartTime); err == nil {
		startedKey = started.Format(timeKey)
	}

	ids, err := json.Marshal([]string(rec.ScreenshotIDs))
	if err != nil {
		return fmt.Errorf("summary %s: failed to encode screenshot ids: %w", rec.ID, err)
	}

	_, err = s.db.Exec(
		`INSERT INTO summaries (id, project, summary, start_time, end_time, started_at, screenshot_ids) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Project, rec.Summary, rec.StartTime, rec.EndTime, startedKey, string(ids),
	)
	if err != nil {
		return fmt.Errorf("failed to save summary: %w", err)
	}
	return nil
}

// ScreenshotsInRange returns screenshots captured in [start, end), oldest
// first. The result is never nil.
func (s *Store) ScreenshotsInRange(start, end time.Time) ([]Screenshot, error) {
	rows, err := s.db.Query(
		`SELECT id, timestamp, app_name, window_title FROM screenshots
		 WHERE captured_at >= ? AND captured_at < ? ORDER BY captured_at ASC`,
		start.Format(timeKey), end.Format(timeKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query screenshots: %w", err)
	}
	defer rows.Close()

	records := []Screenshot{}
	for rows.Next() {
		var r Screenshot
		var ts any
		var app, title sql.NullString
		if err := rows.Scan(&r.ID, &ts, &app, &title); err != nil {
			return nil, fmt.Errorf("failed to scan screenshot: %w", err)
		}
		r.Timestamp = normalizeRaw(ts)
		r.AppName = app.String
		r.WindowTitle = title.String
		records = append(records, r)
	}
	return records, rows.Err()
}

// SessionsInRange returns sessions that started in [start, end). A NULL
// duration comes back as zero.
func (s *Store) SessionsInRange(start, end time.Time) ([]Session, error) {
	rows, err := s.db.Query(
		`SELECT id, started_at, duration_seconds FROM sessions
		 WHERE started_at >= ? AND started_at < ? ORDER BY started_at ASC`,
		start.Format(timeKey), end.Format(timeKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	records := []Session{}
	for rows.Next() {
		var r Session
		var startedAt string
		var duration sql.NullInt64
		if err := rows.Scan(&r.ID, &startedAt, &duration); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		r.StartTime = startedAt
		r.DurationSeconds = duration.Int64
		records = append(records, r)
	}
	return records, rows.Err()
}

// SummariesInRange returns summaries that started in [start, end), oldest
// first. Summaries without a usable start time are excluded, since they
// cannot be placed in any range.
func (s *Store) SummariesInRange(start, end time.Time) ([]Summary, error) {
	rows, err := s.db.Query(
		`SELECT id, project, summary, start_time, end_time, screenshot_ids FROM summaries
		 WHERE started_at IS NOT NULL AND started_at >= ? AND started_at < ?
		 ORDER BY started_at ASC`,
		start.Format(timeKey), end.Format(timeKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer rows.Close()

	records := []Summary{}
	for rows.Next() {
		var r Summary
		var project, text, ids sql.NullString
		var startRaw, endRaw any
		if err := rows.Scan(&r.ID, &project, &text, &startRaw, &endRaw, &ids); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		r.Project = project.String
		r.Summary = text.String
		r.StartTime = normalizeRaw(startRaw)
		r.EndTime = normalizeRaw(endRaw)
		if err := r.ScreenshotIDs.decode(ids.String); err != nil {
			return nil, fmt.Errorf("summary %s: invalid screenshot ids: %w", r.ID, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// SummariesByProject groups the summaries in [start, end) by their project
// label. Summaries the upstream classifier could not place land in the
// "unknown" bucket.
func (s *Store) SummariesByProject(start, end time.Time) (map[string][]Summary, error) {
	summaries, err := s.SummariesInRange(start, end)
	if err != nil {
		return nil, err
	}

	byProject := map[string][]Summary{}
	for _, sum := range summaries {
		project := sum.Project
		if project == "" {
			project = "unknown"
		}
		byProject[project] = append(byProject[project], sum)
	}
	return byProject, nil
}

// normalizeRaw maps driver byte slices to strings so raw timestamp values are
// always string or numeric.
func normalizeRaw(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
