// Package sqlite implements the worklog index on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mhenders/worklog/internal/discovery"
	"github.com/mhenders/worklog/internal/storage"
	"github.com/mhenders/worklog/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS entries (
    date        TEXT PRIMARY KEY,
    path        TEXT NOT NULL,
    week_ending TEXT NOT NULL,
    size_bytes  INTEGER NOT NULL DEFAULT 0,
    modified_at TIMESTAMP,
    indexed_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_week ON entries(week_ending);

CREATE TABLE IF NOT EXISTS settings (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS summaries (
    id         TEXT PRIMARY KEY,
    start_date TEXT NOT NULL,
    end_date   TEXT NOT NULL,
    model      TEXT NOT NULL,
    content    TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_summaries_range ON summaries(start_date, end_date);
`

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ storage.Store = (*SQLiteStore)(nil)

// New opens (creating if needed) the index database at path.
func New(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// WAL keeps readers unblocked while the reindexer writes.
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=ON&_loc=UTC")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func dateKey(d time.Time) string { return d.Format(types.DateLayout) }

// UpsertEntry writes or replaces the index row for rec's date.
func (s *SQLiteStore) UpsertEntry(ctx context.Context, rec *types.EntryRecord) error {
	indexedAt := rec.IndexedAt
	if indexedAt.IsZero() {
		indexedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (date, path, week_ending, size_bytes, modified_at, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			path = excluded.path,
			week_ending = excluded.week_ending,
			size_bytes = excluded.size_bytes,
			modified_at = excluded.modified_at,
			indexed_at = excluded.indexed_at`,
		dateKey(rec.Date), rec.Path, dateKey(rec.WeekEnding),
		rec.SizeBytes, rec.ModifiedAt.UTC(), indexedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert entry %s: %w", dateKey(rec.Date), err)
	}
	return nil
}

// DeleteEntry removes the index row for date, if any.
func (s *SQLiteStore) DeleteEntry(ctx context.Context, date time.Time) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE date = ?", dateKey(date))
	if err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", dateKey(date), err)
	}
	return nil
}

// GetEntry returns the index row for date, or storage.ErrNotFound.
func (s *SQLiteStore) GetEntry(ctx context.Context, date time.Time) (*types.EntryRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT date, path, week_ending, size_bytes, modified_at, indexed_at
		FROM entries WHERE date = ?`, dateKey(date))
	rec, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry %s: %w", dateKey(date), err)
	}
	return rec, nil
}

// ListEntries returns index rows with dates in [start, end], ascending.
func (s *SQLiteStore) ListEntries(ctx context.Context, start, end time.Time) ([]*types.EntryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, path, week_ending, size_bytes, modified_at, indexed_at
		FROM entries WHERE date >= ? AND date <= ? ORDER BY date`,
		dateKey(start), dateKey(end))
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var out []*types.EntryRecord
	for rows.Next() {
		rec, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*types.EntryRecord, error) {
	var rec types.EntryRecord
	var date, weekEnding string
	var modifiedAt, indexedAt sql.NullTime
	if err := row.Scan(&date, &rec.Path, &weekEnding, &rec.SizeBytes, &modifiedAt, &indexedAt); err != nil {
		return nil, err
	}
	var err error
	if rec.Date, err = time.ParseInLocation(types.DateLayout, date, time.UTC); err != nil {
		return nil, fmt.Errorf("invalid date %q in index: %w", date, err)
	}
	if rec.WeekEnding, err = time.ParseInLocation(types.DateLayout, weekEnding, time.UTC); err != nil {
		return nil, fmt.Errorf("invalid week_ending %q in index: %w", weekEnding, err)
	}
	if modifiedAt.Valid {
		rec.ModifiedAt = modifiedAt.Time
	}
	if indexedAt.Valid {
		rec.IndexedAt = indexedAt.Time
	}
	return &rec, nil
}

// ReconcileDiscovery brings the index in line with a discovery result:
// every found file gains or refreshes a row, and rows inside the result's
// range whose file was not found are removed. Files that vanish between
// discovery and stat are skipped rather than failing the reconcile.
func (s *SQLiteStore) ReconcileDiscovery(ctx context.Context, res *discovery.Result) (int, int, error) {
	if res == nil {
		return 0, 0, fmt.Errorf("nil discovery result")
	}

	indexed := 0
	foundDates := make(map[string]bool, len(res.FoundFiles))
	for _, path := range res.FoundFiles {
		date, ok := discovery.ParseWorklogFilename(filepath.Base(path))
		if !ok {
			continue
		}
		weekEnding, ok := discovery.ParseWeekEndingName(filepath.Base(filepath.Dir(path)))
		if !ok {
			weekEnding = discovery.CanonicalWeekEnding(date)
		}
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		rec := &types.EntryRecord{
			Date:       date,
			Path:       path,
			WeekEnding: weekEnding,
			SizeBytes:  info.Size(),
			ModifiedAt: info.ModTime().UTC(),
			IndexedAt:  time.Now().UTC(),
		}
		if err := s.UpsertEntry(ctx, rec); err != nil {
			return indexed, 0, err
		}
		foundDates[dateKey(date)] = true
		indexed++
	}

	// Drop in-range rows the scan no longer backs.
	removed := 0
	rows, err := s.db.QueryContext(ctx,
		"SELECT date FROM entries WHERE date >= ? AND date <= ?",
		dateKey(res.StartDate), dateKey(res.EndDate))
	if err != nil {
		return indexed, 0, fmt.Errorf("failed to list indexed dates: %w", err)
	}
	var stale []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			rows.Close()
			return indexed, removed, fmt.Errorf("failed to scan date: %w", err)
		}
		if !foundDates[date] {
			stale = append(stale, date)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return indexed, removed, err
	}
	for _, date := range stale {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE date = ?", date); err != nil {
			return indexed, removed, fmt.Errorf("failed to remove stale entry %s: %w", date, err)
		}
		removed++
	}
	return indexed, removed, nil
}
