// Package storage defines the interface for the worklog index backends.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mhenders/worklog/internal/discovery"
	"github.com/mhenders/worklog/internal/types"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store is the SQL index over the on-disk journal. It mirrors what
// discovery finds; the filesystem stays the source of truth and
// ReconcileDiscovery brings the index back in line with it.
type Store interface {
	// Entry index
	UpsertEntry(ctx context.Context, rec *types.EntryRecord) error
	DeleteEntry(ctx context.Context, date time.Time) error
	GetEntry(ctx context.Context, date time.Time) (*types.EntryRecord, error)
	ListEntries(ctx context.Context, start, end time.Time) ([]*types.EntryRecord, error)

	// ReconcileDiscovery upserts an index row for every found file in the
	// result and removes in-range rows with no backing file. Returns the
	// number of rows written and removed.
	ReconcileDiscovery(ctx context.Context, res *discovery.Result) (indexed, removed int, err error)

	// Settings
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	AllSettings(ctx context.Context) (map[string]string, error)

	// Summaries
	SaveSummary(ctx context.Context, s *types.Summary) error
	GetSummary(ctx context.Context, id string) (*types.Summary, error)
	ListSummaries(ctx context.Context, limit int) ([]*types.Summary, error)

	// Stats
	Stats(ctx context.Context) (*types.IndexStats, error)

	Close() error
}
