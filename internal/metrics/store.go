// Package metrics persists per-mode invocation counts in SQLite and
// exposes them to OpenTelemetry as an observable gauge.
package metrics

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Mode labels the kind of invocation being counted.
type Mode string

const (
	ModeQuery  Mode = "query"
	ModeChat   Mode = "chat"
	ModeIngest Mode = "ingest"
)

// AllModes lists every tracked mode.
var AllModes = []Mode{ModeQuery, ModeChat, ModeIngest}

// Store manages SQLite persistence for invocation counts. Counts are
// bucketed by day so totals can be reported per date or cumulatively.
type Store struct {
	db *sql.DB
}

// NewStore opens the database at ~/.retriever/stats.db, creating the
// directory and schema as needed.
func NewStore() (*Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}

	dir := filepath.Join(homeDir, ".retriever")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}
	return NewStoreWithPath(filepath.Join(dir, "stats.db"))
}

// NewStoreWithPath opens the database at a custom path.
func NewStoreWithPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS invocation_counts (
			mode TEXT NOT NULL,
			date TEXT NOT NULL,
			count INTEGER DEFAULT 0,
			PRIMARY KEY (mode, date)
		);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Increment adds one to today's count for the mode.
func (s *Store) Increment(mode Mode) error {
	today := time.Now().Format("2006-01-02")
	upsert := `
		INSERT INTO invocation_counts (mode, date, count)
		VALUES (?, ?, 1)
		ON CONFLICT(mode, date) DO UPDATE SET count = count + 1;
	`
	if _, err := s.db.Exec(upsert, string(mode), today); err != nil {
		return fmt.Errorf("incrementing count for %s: %w", mode, err)
	}
	return nil
}

// TotalByMode returns the cumulative count for one mode across all dates.
func (s *Store) TotalByMode(mode Mode) (int64, error) {
	var total int64
	row := s.db.QueryRow(
		"SELECT COALESCE(SUM(count), 0) FROM invocation_counts WHERE mode = ?",
		string(mode),
	)
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("summing counts for %s: %w", mode, err)
	}
	return total, nil
}

// AllTotals returns cumulative counts for every mode, including zeros
// for modes that were never recorded.
func (s *Store) AllTotals() (map[Mode]int64, error) {
	result := make(map[Mode]int64, len(AllModes))
	for _, mode := range AllModes {
		result[mode] = 0
	}

	rows, err := s.db.Query(
		"SELECT mode, COALESCE(SUM(count), 0) FROM invocation_counts GROUP BY mode",
	)
	if err != nil {
		return nil, fmt.Errorf("querying totals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var mode string
		var total int64
		if err := rows.Scan(&mode, &total); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		result[Mode(mode)] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return result, nil
}

// CountByDate returns the count for one mode on one date (2006-01-02).
func (s *Store) CountByDate(mode Mode, date string) (int64, error) {
	var count int64
	row := s.db.QueryRow(
		"SELECT COALESCE(count, 0) FROM invocation_counts WHERE mode = ? AND date = ?",
		string(mode), date,
	)
	if err := row.Scan(&count); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("reading count: %w", err)
	}
	return count, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
