package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mhenders/worklog/internal/storage"
	"github.com/mhenders/worklog/internal/types"
)

// GetSetting returns the value for key, or storage.ErrNotFound.
func (s *SQLiteStore) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, nil
}

// SetSetting writes or replaces a setting.
func (s *SQLiteStore) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// AllSettings returns every setting as a map.
func (s *SQLiteStore) AllSettings(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		out[key] = value
	}
	return out, rows.Err()
}

// SaveSummary persists a generated summary.
func (s *SQLiteStore) SaveSummary(ctx context.Context, sum *types.Summary) error {
	createdAt := sum.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO summaries (id, start_date, end_date, model, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sum.ID, dateKey(sum.StartDate), dateKey(sum.EndDate), sum.Model, sum.Content, createdAt)
	if err != nil {
		return fmt.Errorf("failed to save summary %s: %w", sum.ID, err)
	}
	return nil
}

// GetSummary returns a summary by id, or storage.ErrNotFound.
func (s *SQLiteStore) GetSummary(ctx context.Context, id string) (*types.Summary, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, start_date, end_date, model, content, created_at
		FROM summaries WHERE id = ?`, id)
	sum, err := scanSummary(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get summary %s: %w", id, err)
	}
	return sum, nil
}

// ListSummaries returns the most recent summaries, newest first.
// limit <= 0 means no limit.
func (s *SQLiteStore) ListSummaries(ctx context.Context, limit int) ([]*types.Summary, error) {
	query := `
		SELECT id, start_date, end_date, model, content, created_at
		FROM summaries ORDER BY created_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}
	defer rows.Close()

	var out []*types.Summary
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func scanSummary(row rowScanner) (*types.Summary, error) {
	var sum types.Summary
	var start, end string
	var createdAt sql.NullTime
	if err := row.Scan(&sum.ID, &start, &end, &sum.Model, &sum.Content, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if sum.StartDate, err = time.ParseInLocation(types.DateLayout, start, time.UTC); err != nil {
		return nil, fmt.Errorf("invalid start_date %q: %w", start, err)
	}
	if sum.EndDate, err = time.ParseInLocation(types.DateLayout, end, time.UTC); err != nil {
		return nil, fmt.Errorf("invalid end_date %q: %w", end, err)
	}
	if createdAt.Valid {
		sum.CreatedAt = createdAt.Time
	}
	return &sum, nil
}

// Stats reports the current shape of the index.
func (s *SQLiteStore) Stats(ctx context.Context) (*types.IndexStats, error) {
	stats := &types.IndexStats{}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&stats.EntryCount); err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM summaries").Scan(&stats.SummaryCount); err != nil {
		return nil, fmt.Errorf("failed to count summaries: %w", err)
	}
	var first, last sql.NullString
	err := s.db.QueryRowContext(ctx, "SELECT MIN(date), MAX(date) FROM entries").Scan(&first, &last)
	if err != nil {
		return nil, fmt.Errorf("failed to get date bounds: %w", err)
	}
	if first.Valid {
		if d, err := time.ParseInLocation(types.DateLayout, first.String, time.UTC); err == nil {
			stats.FirstDate = &d
		}
	}
	if last.Valid {
		if d, err := time.ParseInLocation(types.DateLayout, last.String, time.UTC); err == nil {
			stats.LastDate = &d
		}
	}
	return stats, nil
}
