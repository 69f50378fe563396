package entry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhenders/worklog/internal/discovery"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	base := t.TempDir()
	engine := discovery.NewEngine(nil, nil)
	return NewManager(base, engine, nil, nil), base
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPathPrefersExistingWeekDirectory(t *testing.T) {
	manager, base := newTestManager(t)

	// An existing directory with a non-canonical label (Wednesday) that
	// covers the date must win over the canonical Friday label.
	week := filepath.Join(base, "worklogs_2024", "worklogs_2024-04", "week_ending_2024-04-17")
	require.NoError(t, os.MkdirAll(week, 0755))

	got := manager.Path(date(2024, time.April, 15))
	assert.Equal(t, filepath.Join(week, "worklog_2024-04-15.txt"), got)
}

func TestPathFallsBackToCanonicalLayout(t *testing.T) {
	manager, base := newTestManager(t)

	got := manager.Path(date(2024, time.April, 15))
	want := filepath.Join(base, "worklogs_2024", "worklogs_2024-04",
		"week_ending_2024-04-19", "worklog_2024-04-15.txt")
	assert.Equal(t, want, got)
}

func TestWriteReadRoundTrip(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()
	d := date(2024, time.April, 15)

	written, err := manager.Write(ctx, d, "shipped the parser\n")
	require.NoError(t, err)
	assert.FileExists(t, written.Path)

	got, err := manager.Read(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, "shipped the parser\n", got.Content)
	assert.Equal(t, written.Path, got.Path)
}

func TestReadMissingEntry(t *testing.T) {
	manager, _ := newTestManager(t)
	_, err := manager.Read(context.Background(), date(2024, time.April, 15))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppendCreatesAndExtends(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()
	d := date(2024, time.April, 15)

	_, err := manager.Append(ctx, d, "morning: standup")
	require.NoError(t, err)
	e, err := manager.Append(ctx, d, "afternoon: code review")
	require.NoError(t, err)

	assert.Equal(t, "morning: standup\nafternoon: code review", e.Content)
}

func TestDelete(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()
	d := date(2024, time.April, 15)

	e, err := manager.Write(ctx, d, "x")
	require.NoError(t, err)
	require.NoError(t, manager.Delete(ctx, d))
	assert.NoFileExists(t, e.Path)

	// Deleting again is not an error.
	assert.NoError(t, manager.Delete(ctx, d))
}

func TestListLoadsContents(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	for day := 15; day <= 17; day++ {
		_, err := manager.Write(ctx, date(2024, time.April, day), "entry")
		require.NoError(t, err)
	}

	entries, err := manager.List(ctx, date(2024, time.April, 15), date(2024, time.April, 19))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, e := range entries {
		assert.Equal(t, "entry", e.Content)
	}
}
