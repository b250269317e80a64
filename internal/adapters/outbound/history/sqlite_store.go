// Package history persists review attempts in a per-project SQLite
// database, so later submissions can report attempt counts and score
// deltas against earlier ones.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pyreview/pyreview/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS reviews (
    id          TEXT PRIMARY KEY,
    created_at  TEXT NOT NULL,
    source_hash TEXT NOT NULL,
    commit_hash TEXT,
    style_score INTEGER NOT NULL,
    issue_count INTEGER NOT NULL,
    pass_rate   REAL NOT NULL,
    attempt     INTEGER NOT NULL,
    report_json TEXT
);
CREATE INDEX IF NOT EXISTS idx_reviews_created ON reviews(created_at);
`

// Store implements domain.ReviewHistory backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open creates (if needed) and opens the history database under
// projectPath/.pyreview/history.db.
func Open(projectPath string) (*Store, error) {
	dir := filepath.Join(projectPath, ".pyreview")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "history.db"))
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Save(entry domain.ReviewEntry) error {
	_, err := s.db.Exec(
		`INSERT INTO reviews (id, created_at, source_hash, commit_hash, style_score, issue_count, pass_rate, attempt, report_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Timestamp.UTC().Format(time.RFC3339Nano),
		entry.SourceHash,
		entry.CommitHash,
		entry.StyleScore,
		entry.IssueCount,
		entry.PassRate,
		entry.Attempt,
		entry.ReportJSON,
	)
	if err != nil {
		return fmt.Errorf("saving review entry: %w", err)
	}
	return nil
}

// Last returns the most recent entry, or nil when the history is empty.
// When sourceHash is non-empty only entries for that submission match.
func (s *Store) Last(sourceHash string) (*domain.ReviewEntry, error) {
	query := `SELECT id, created_at, source_hash, commit_hash, style_score, issue_count, pass_rate, attempt, report_json
	          FROM reviews`
	args := []any{}
	if sourceHash != "" {
		query += ` WHERE source_hash = ?`
		args = append(args, sourceHash)
	}
	query += ` ORDER BY created_at DESC LIMIT 1`

	row := s.db.QueryRow(query, args...)
	entry, err := scanEntry(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading last review entry: %w", err)
	}
	return entry, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]domain.ReviewEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, created_at, source_hash, commit_hash, style_score, issue_count, pass_rate, attempt, report_json
		 FROM reviews ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("loading review history: %w", err)
	}
	defer rows.Close()

	var entries []domain.ReviewEntry
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning review entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

func scanEntry(scan func(dest ...any) error) (*domain.ReviewEntry, error) {
	var (
		entry      domain.ReviewEntry
		createdAt  string
		commitHash sql.NullString
		reportJSON sql.NullString
	)
	err := scan(&entry.ID, &createdAt, &entry.SourceHash, &commitHash,
		&entry.StyleScore, &entry.IssueCount, &entry.PassRate, &entry.Attempt, &reportJSON)
	if err != nil {
		return nil, err
	}
	if ts, perr := time.Parse(time.RFC3339Nano, createdAt); perr == nil {
		entry.Timestamp = ts
	}
	entry.CommitHash = commitHash.String
	entry.ReportJSON = reportJSON.String
	return &entry, nil
}
