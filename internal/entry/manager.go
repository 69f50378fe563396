// Package entry manages the lifecycle of on-disk journal entries: where a
// date's file lives, creating it in the right week directory, and keeping
// the SQL index in step.
package entry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mhenders/worklog/internal/discovery"
	"github.com/mhenders/worklog/internal/storage"
	"github.com/mhenders/worklog/internal/types"
)

// ErrNotFound is returned when no entry file exists for a date.
var ErrNotFound = errors.New("entry not found")

// Manager owns journal entry files under a base path. Reads go through the
// discovery engine so the idiosyncratic week-ending grouping is honored;
// writes prefer an existing covering week directory and fall back to the
// canonical Friday label only when none exists.
type Manager struct {
	base   string
	engine *discovery.Engine
	store  storage.Store
	log    *log.Logger
}

// NewManager builds a Manager. store may be nil (no index maintenance);
// a nil logger discards output.
func NewManager(base string, engine *discovery.Engine, store storage.Store, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Manager{
		base:   discovery.ExpandHome(base),
		engine: engine,
		store:  store,
		log:    logger,
	}
}

// Path returns where date's entry file lives or would live. An existing
// week directory whose coverage window contains the date wins; otherwise
// the canonical layout decides.
func (m *Manager) Path(date time.Time) string {
	// A covering directory has a week-ending within six days after the
	// date, so scanning [date, date+6] surfaces every candidate.
	weeks, _ := m.engine.WeekDirectories(m.base, date, date.AddDate(0, 0, 6))
	for _, wd := range weeks {
		windowStart := wd.WeekEnding.AddDate(0, 0, -6)
		if !date.Before(windowStart) && !date.After(wd.WeekEnding) {
			return filepath.Join(wd.Path, discovery.WorklogFilename(date))
		}
	}
	return discovery.CanonicalEntryPath(m.base, date)
}

// findFile locates the on-disk file for a single date. The scan window
// extends six days past the date because the covering week directory's
// ending label can be up to six days later.
func (m *Manager) findFile(date time.Time) (string, bool) {
	res := m.engine.Discover(m.base, date, date.AddDate(0, 0, 6))
	for _, path := range res.FoundFiles {
		if d, ok := discovery.ParseWorklogFilename(filepath.Base(path)); ok && d.Equal(date) {
			return path, true
		}
	}
	return "", false
}

// Read loads the entry for date, resolving the file through discovery.
func (m *Manager) Read(ctx context.Context, date time.Time) (*types.Entry, error) {
	path, ok := m.findFile(date)
	if !ok {
		return nil, ErrNotFound
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read entry %s: %w", path, err)
	}
	return &types.Entry{Date: date, Path: path, Content: string(content)}, nil
}

// Write creates or replaces the entry for date and refreshes its index row.
func (m *Manager) Write(ctx context.Context, date time.Time, content string) (*types.Entry, error) {
	path := m.Path(date)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create week directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return nil, fmt.Errorf("failed to write entry: %w", err)
	}
	if err := m.index(ctx, date, path); err != nil {
		// The file is on disk; a stale index heals on the next reindex.
		m.log.Printf("entry: failed to index %s: %v", path, err)
	}
	return &types.Entry{Date: date, Path: path, Content: content}, nil
}

// Append adds text to date's entry, creating it if needed.
func (m *Manager) Append(ctx context.Context, date time.Time, text string) (*types.Entry, error) {
	existing, err := m.Read(ctx, date)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	content := text
	if existing != nil && existing.Content != "" {
		content = existing.Content
		if content[len(content)-1] != '\n' {
			content += "\n"
		}
		content += text
	}
	return m.Write(ctx, date, content)
}

// Delete removes date's entry file and its index row. Deleting a date with
// no entry is not an error.
func (m *Manager) Delete(ctx context.Context, date time.Time) error {
	if path, ok := m.findFile(date); ok {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove entry %s: %w", path, err)
		}
	}
	if m.store != nil {
		if err := m.store.DeleteEntry(ctx, date); err != nil {
			return err
		}
	}
	return nil
}

// List loads every entry dated in [start, end], with contents, in the
// order discovery found them. The scan window extends past end so a week
// directory ending just after the range still contributes its files.
// Files that disappear between discovery and read are skipped.
func (m *Manager) List(ctx context.Context, start, end time.Time) ([]*types.Entry, error) {
	res := m.engine.Discover(m.base, start, end.AddDate(0, 0, 6))
	entries := make([]*types.Entry, 0, len(res.FoundFiles))
	for _, path := range res.FoundFiles {
		date, ok := discovery.ParseWorklogFilename(filepath.Base(path))
		if !ok || date.Before(start) || date.After(end) {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			m.log.Printf("entry: failed to read %s: %v", path, err)
			continue
		}
		entries = append(entries, &types.Entry{Date: date, Path: path, Content: string(content)})
	}
	return entries, nil
}

// Discover exposes raw discovery over the manager's base path.
func (m *Manager) Discover(start, end time.Time) *discovery.Result {
	return m.engine.Discover(m.base, start, end)
}

// BasePath returns the expanded base path the manager operates on.
func (m *Manager) BasePath() string { return m.base }

func (m *Manager) index(ctx context.Context, date time.Time, path string) error {
	if m.store == nil {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	weekEnding, ok := discovery.ParseWeekEndingName(filepath.Base(filepath.Dir(path)))
	if !ok {
		weekEnding = discovery.CanonicalWeekEnding(date)
	}
	return m.store.UpsertEntry(ctx, &types.EntryRecord{
		Date:       date,
		Path:       path,
		WeekEnding: weekEnding,
		SizeBytes:  info.Size(),
		ModifiedAt: info.ModTime().UTC(),
		IndexedAt:  time.Now().UTC(),
	})
}
