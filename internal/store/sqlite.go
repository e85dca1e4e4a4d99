package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/resumesmartx/resumesmartx/internal/model"
	_ "modernc.org/sqlite"
)

// schema creates the alert dedup tables, the search history table and the
// API usage log. Timestamps are Unix seconds. seeded_searches is never
// pruned by Cleanup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS seen_listings (
		listing_key TEXT PRIMARY KEY,
		first_seen  INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS seeded_searches (
		search    TEXT PRIMARY KEY,
		seeded_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS searches (
		id         TEXT PRIMARY KEY,
		query      TEXT NOT NULL,
		provider   TEXT NOT NULL,
		fallback   INTEGER NOT NULL,
		results    INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches (created_at)`,
	`CREATE TABLE IF NOT EXISTS api_usage (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		action     TEXT NOT NULL,
		tokens     INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	)`,
}

// UsageTotal is the aggregated API usage for one action.
type UsageTotal struct {
	Action string
	Calls  int
	Tokens int
}

// SQLiteStore persists seen listings, search history and API usage in a
// SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var (
	_ model.ListingStore   = (*SQLiteStore)(nil)
	_ model.SearchRecorder = (*SQLiteStore)(nil)
	_ model.UsageRecorder  = (*SQLiteStore)(nil)
)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// its tables exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// A single connection serializes writers from the API server and alert
	// pollers instead of surfacing SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// HasSeen returns true if the given listing key has already been recorded.
func (s *SQLiteStore) HasSeen(key string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM seen_listings WHERE listing_key = ?", key).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking seen status for %s: %w", key, err)
	}
	return true, nil
}

// MarkSeen records a listing key as seen. If it already exists the call is a no-op.
func (s *SQLiteStore) MarkSeen(key string) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO seen_listings (listing_key, first_seen) VALUES (?, ?)",
		key, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("marking listing %s as seen: %w", key, err)
	}
	return nil
}

// Cleanup deletes seen-listing entries older than the given duration.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) error {
	cutoff := s.now().Add(-olderThan).Unix()
	_, err := s.db.Exec("DELETE FROM seen_listings WHERE first_seen < ?", cutoff)
	if err != nil {
		return fmt.Errorf("cleaning up seen listings older than %v: %w", olderThan, err)
	}
	return nil
}

// IsSeeded reports whether the saved search has completed its first run.
func (s *SQLiteStore) IsSeeded(search string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM seeded_searches WHERE search = ?", search).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking seed status for %s: %w", search, err)
	}
	return true, nil
}

// MarkSeeded records that the saved search has completed its first run.
func (s *SQLiteStore) MarkSeeded(search string) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO seeded_searches (search, seeded_at) VALUES (?, ?)",
		search, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("marking search %s as seeded: %w", search, err)
	}
	return nil
}

// RecordSearch appends one search to the history. A missing ID or
// timestamp is filled in.
func (s *SQLiteStore) RecordSearch(rec model.SearchRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	_, err := s.db.Exec(
		`INSERT INTO searches (id, query, provider, fallback, results, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Query, rec.Provider, rec.Fallback, rec.Results, rec.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("recording search %s: %w", rec.ID, err)
	}
	return nil
}

// RecentSearches returns up to limit searches, newest first.
func (s *SQLiteStore) RecentSearches(limit int) ([]model.SearchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, query, provider, fallback, results, created_at
		 FROM searches ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying recent searches: %w", err)
	}
	defer rows.Close()

	var records []model.SearchRecord
	for rows.Next() {
		var rec model.SearchRecord
		var createdAt int64
		if err := rows.Scan(&rec.ID, &rec.Query, &rec.Provider, &rec.Fallback, &rec.Results, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning search row: %w", err)
		}
		rec.CreatedAt = time.Unix(createdAt, 0)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search rows: %w", err)
	}
	return records, nil
}

// RecordUsage logs one external API call with its estimated token count.
func (s *SQLiteStore) RecordUsage(action string, tokens int) error {
	_, err := s.db.Exec(
		"INSERT INTO api_usage (action, tokens, created_at) VALUES (?, ?, ?)",
		action, tokens, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("recording usage for %s: %w", action, err)
	}
	return nil
}

// UsageTotals aggregates API usage per action, ordered by action name.
func (s *SQLiteStore) UsageTotals() ([]UsageTotal, error) {
	rows, err := s.db.Query(
		`SELECT action, COUNT(*), COALESCE(SUM(tokens), 0)
		 FROM api_usage GROUP BY action ORDER BY action`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying usage totals: %w", err)
	}
	defer rows.Close()

	var totals []UsageTotal
	for rows.Next() {
		var u UsageTotal
		if err := rows.Scan(&u.Action, &u.Calls, &u.Tokens); err != nil {
			return nil, fmt.Errorf("scanning usage row: %w", err)
		}
		totals = append(totals, u)
	}
	return totals, rows.Err()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
