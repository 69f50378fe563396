package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// panickingFS blows up on every listing, standing in for a filesystem
// failure no error return anticipated.
type panickingFS struct{}

func (panickingFS) ReadDir(string) ([]fs.DirEntry, error) { panic("filesystem gave out") }

func TestDiscoverSingleWeekAllPresent(t *testing.T) {
	base := t.TempDir()
	week := weekTree(t, base, Date(2024, time.April, 19))
	for day := 15; day <= 19; day++ {
		writeEntryFile(t, week, Date(2024, time.April, day))
	}

	engine := NewEngine(nil, nil)
	res := engine.Discover(base, Date(2024, time.April, 15), Date(2024, time.April, 19))

	assert.Len(t, res.FoundFiles, 5)
	assert.Empty(t, res.MissingFiles)
	assert.Equal(t, 5, res.TotalExpected)
	require.Len(t, res.DiscoveredWeeks, 1)
	assert.Equal(t, Date(2024, time.April, 19), res.DiscoveredWeeks[0].WeekEnding)
	assert.Equal(t, 5, res.DiscoveredWeeks[0].FileCount)
	assert.Equal(t, 1, res.ScanStats[StatDirectoriesScanned])
	assert.Equal(t, 1, res.ScanStats[StatValidWeekDirectories])
	assert.Equal(t, 5, res.ScanStats[StatTotalFilesFound])
	assert.GreaterOrEqual(t, res.ProcessingSeconds, 0.0)
}

// A week directory labeled with a May date but filed under the April month
// folder must surface all of its files: the week-ending label is an opaque
// grouping key, not calendar arithmetic.
func TestDiscoverCrossMonthWeek(t *testing.T) {
	base := t.TempDir()
	week := filepath.Join(base, "worklogs_2024", "worklogs_2024-04", "week_ending_2024-05-03")
	require.NoError(t, os.MkdirAll(week, 0755))
	for _, d := range []time.Time{
		Date(2024, time.April, 29),
		Date(2024, time.April, 30),
		Date(2024, time.May, 1),
		Date(2024, time.May, 2),
		Date(2024, time.May, 3),
	} {
		writeEntryFile(t, week, d)
	}

	engine := NewEngine(nil, nil)
	res := engine.Discover(base, Date(2024, time.April, 29), Date(2024, time.May, 3))

	assert.Len(t, res.FoundFiles, 5)
	assert.Empty(t, res.MissingFiles)
	assert.Equal(t, 5, res.TotalExpected)
}

func TestDiscoverTracksMissing(t *testing.T) {
	base := t.TempDir()
	week := weekTree(t, base, Date(2024, time.April, 17))
	writeEntryFile(t, week, Date(2024, time.April, 15))

	engine := NewEngine(nil, nil)
	res := engine.Discover(base, Date(2024, time.April, 15), Date(2024, time.April, 17))

	assert.Len(t, res.FoundFiles, 1)
	assert.Len(t, res.MissingFiles, 2)
	assert.Equal(t, 3, res.TotalExpected)
	for _, path := range res.MissingFiles {
		assert.Equal(t, week, filepath.Dir(path))
	}
}

func TestDiscoverNonexistentBase(t *testing.T) {
	engine := NewEngine(nil, nil)
	start, end := Date(2024, time.April, 15), Date(2024, time.April, 19)
	res := engine.Discover(filepath.Join(t.TempDir(), "does-not-exist"), start, end)

	assert.Empty(t, res.FoundFiles)
	assert.Len(t, res.MissingFiles, 5)
	assert.Equal(t, 5, res.TotalExpected)
	assert.Empty(t, res.DiscoveredWeeks)
	// Synthesized under the canonical layout.
	assert.Contains(t, res.MissingFiles[0], filepath.Join("worklogs_2024", "worklogs_2024-04"))
}

// An unexpected failure inside the scan must degrade to a well-formed
// empty result with the error marker set, never propagate a panic.
func TestDiscoverRecoversFromPanic(t *testing.T) {
	engine := NewEngine(panickingFS{}, nil)

	var res *Result
	require.NotPanics(t, func() {
		res = engine.Discover("base", Date(2024, time.April, 15), Date(2024, time.April, 19))
	})

	require.NotNil(t, res)
	assert.Empty(t, res.FoundFiles)
	assert.Empty(t, res.MissingFiles)
	assert.Zero(t, res.TotalExpected)
	assert.Equal(t, 1, res.ScanStats[StatError])
	assert.Contains(t, res.ScanStats, StatScanDurationMS)
	assert.GreaterOrEqual(t, res.ProcessingSeconds, 0.0)
}

func TestDiscoverInvertedRange(t *testing.T) {
	engine := NewEngine(nil, nil)
	res := engine.Discover(t.TempDir(), Date(2024, time.April, 19), Date(2024, time.April, 15))

	assert.Empty(t, res.FoundFiles)
	assert.Empty(t, res.MissingFiles)
	assert.Zero(t, res.TotalExpected)
	assert.NotContains(t, res.ScanStats, StatError)
}

// found + missing must cover every day of a valid range, whatever mix of
// present and absent files the tree holds.
func TestDiscoverInvariant(t *testing.T) {
	base := t.TempDir()
	week1 := weekTree(t, base, Date(2024, time.April, 12))
	week2 := weekTree(t, base, Date(2024, time.April, 19))
	writeEntryFile(t, week1, Date(2024, time.April, 8))
	writeEntryFile(t, week1, Date(2024, time.April, 10))
	writeEntryFile(t, week2, Date(2024, time.April, 16))

	engine := NewEngine(nil, nil)
	start, end := Date(2024, time.April, 8), Date(2024, time.April, 19)
	res := engine.Discover(base, start, end)

	assert.Equal(t, 12, res.TotalExpected)
	assert.Equal(t, res.TotalExpected, len(res.FoundFiles)+len(res.MissingFiles))
}

func TestDiscoverIdempotent(t *testing.T) {
	base := t.TempDir()
	week := weekTree(t, base, Date(2024, time.April, 19))
	writeEntryFile(t, week, Date(2024, time.April, 17))

	engine := NewEngine(nil, nil)
	start, end := Date(2024, time.April, 15), Date(2024, time.April, 19)
	first := engine.Discover(base, start, end)
	second := engine.Discover(base, start, end)

	assert.Equal(t, first.FoundFiles, second.FoundFiles)
	assert.Equal(t, first.MissingFiles, second.MissingFiles)
	assert.Equal(t, first.TotalExpected, second.TotalExpected)
	assert.Equal(t, first.DiscoveredWeeks, second.DiscoveredWeeks)
}

// A full-year range over a populated tree must stay fast: cost follows
// directory count, not range length.
func TestDiscoverFullYearUnderASecond(t *testing.T) {
	base := t.TempDir()
	day := Date(2024, time.January, 1)
	for day.Year() == 2024 {
		weekEnding := CanonicalWeekEnding(day)
		week := weekTree(t, base, weekEnding)
		writeEntryFile(t, week, day)
		day = day.AddDate(0, 0, 1)
	}

	engine := NewEngine(nil, nil)
	started := time.Now()
	res := engine.Discover(base, Date(2024, time.January, 1), Date(2024, time.December, 31))
	elapsed := time.Since(started)

	assert.Equal(t, 366, res.TotalExpected)
	assert.Equal(t, res.TotalExpected, len(res.FoundFiles)+len(res.MissingFiles))
	assert.Less(t, elapsed, time.Second)
}

func TestDiscoverWeekCountsRespectRange(t *testing.T) {
	base := t.TempDir()
	week := weekTree(t, base, Date(2024, time.April, 19))
	writeEntryFile(t, week, Date(2024, time.April, 15))
	writeEntryFile(t, week, Date(2024, time.April, 16))
	writeEntryFile(t, week, Date(2024, time.April, 19))

	engine := NewEngine(nil, nil)
	res := engine.Discover(base, Date(2024, time.April, 15), Date(2024, time.April, 16))

	require.Len(t, res.DiscoveredWeeks, 0)

	// Widen the range so the week directory qualifies; all three files
	// now fall inside it.
	res = engine.Discover(base, Date(2024, time.April, 15), Date(2024, time.April, 19))
	require.Len(t, res.DiscoveredWeeks, 1)
	assert.Equal(t, 3, res.DiscoveredWeeks[0].FileCount)
}
