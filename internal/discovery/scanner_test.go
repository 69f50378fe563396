package discovery

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// weekTree builds base/worklogs_Y/worklogs_Y-M/week_ending_D on disk and
// returns the week directory path.
func weekTree(t *testing.T, base string, weekEnding time.Time) string {
	t.Helper()
	dir := filepath.Join(base, YearDirName(weekEnding), MonthDirName(weekEnding), WeekEndingName(weekEnding))
	require.NoError(t, os.MkdirAll(dir, 0755))
	return dir
}

func writeEntryFile(t *testing.T, weekDir string, date time.Time) string {
	t.Helper()
	path := filepath.Join(weekDir, WorklogFilename(date))
	require.NoError(t, os.WriteFile(path, []byte("worked on things\n"), 0644))
	return path
}

func TestWeekDirectoriesFiltersAndSorts(t *testing.T) {
	base := t.TempDir()
	// Out of order on disk, expected sorted by week-ending date.
	weekTree(t, base, Date(2024, time.May, 10))
	weekTree(t, base, Date(2024, time.April, 19))
	weekTree(t, base, Date(2024, time.April, 26))
	// Outside the range: different year and far-future week.
	weekTree(t, base, Date(2023, time.April, 21))
	weekTree(t, base, Date(2024, time.December, 27))

	engine := NewEngine(nil, nil)
	weeks, monthDirs := engine.WeekDirectories(base, Date(2024, time.April, 1), Date(2024, time.May, 31))

	require.Len(t, weeks, 3)
	assert.Equal(t, Date(2024, time.April, 19), weeks[0].WeekEnding)
	assert.Equal(t, Date(2024, time.April, 26), weeks[1].WeekEnding)
	assert.Equal(t, Date(2024, time.May, 10), weeks[2].WeekEnding)
	// 2024-04 and 2024-05 overlap the range; 2023-04 and 2024-12 do not.
	assert.Equal(t, 2, monthDirs)
}

func TestWeekDirectoriesSkipsMalformedNames(t *testing.T) {
	base := t.TempDir()
	good := weekTree(t, base, Date(2024, time.April, 19))
	monthDir := filepath.Dir(good)

	for _, name := range []string{
		"week_ending_2024-02-30", // not a real date
		"week_ending_garbage",
		"notes",
		"week_ending_2024-04",   // one dash
		"week_ending_2023-02-29", // leap check
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(monthDir, name), 0755))
	}
	// A regular file with a matching name must be ignored.
	require.NoError(t, os.WriteFile(filepath.Join(monthDir, "week_ending_2024-04-12"), []byte("x"), 0644))
	// Clutter at the year and base levels.
	require.NoError(t, os.MkdirAll(filepath.Join(base, "worklogs_abcd"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(base, "random"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(base, YearDirName(Date(2024, time.January, 1)), "worklogs_2024-13"), 0755))

	engine := NewEngine(nil, nil)
	weeks, _ := engine.WeekDirectories(base, Date(2024, time.April, 1), Date(2024, time.April, 30))

	require.Len(t, weeks, 1)
	assert.Equal(t, good, weeks[0].Path)
}

func TestWeekDirectoriesMissingBase(t *testing.T) {
	engine := NewEngine(nil, nil)
	weeks, monthDirs := engine.WeekDirectories(filepath.Join(t.TempDir(), "nope"),
		Date(2024, time.January, 1), Date(2024, time.December, 31))
	assert.Empty(t, weeks)
	assert.Zero(t, monthDirs)
}

func TestWeekDirectoriesMonthOverlapCrossMonth(t *testing.T) {
	base := t.TempDir()
	// Week ending May 3 filed under April: the April month dir overlaps
	// any range touching April, and the week dir's own date decides.
	dir := filepath.Join(base, "worklogs_2024", "worklogs_2024-04", "week_ending_2024-05-03")
	require.NoError(t, os.MkdirAll(dir, 0755))

	engine := NewEngine(nil, nil)
	weeks, _ := engine.WeekDirectories(base, Date(2024, time.April, 29), Date(2024, time.May, 3))
	require.Len(t, weeks, 1)
	assert.Equal(t, Date(2024, time.May, 3), weeks[0].WeekEnding)
}

func TestWeekDirectoriesUnreadableBranchSkipped(t *testing.T) {
	fsys := newFakeFS()
	base := "base"
	okMonth := filepath.Join(base, "worklogs_2024", "worklogs_2024-04")
	badMonth := filepath.Join(base, "worklogs_2024", "worklogs_2024-05")
	fsys.addDir(filepath.Join(okMonth, "week_ending_2024-04-19"))
	fsys.addDir(filepath.Join(badMonth, "week_ending_2024-05-10"))
	fsys.failPaths[badMonth] = true

	engine := NewEngine(fsys, nil)
	weeks, monthDirs := engine.WeekDirectories(base, Date(2024, time.April, 1), Date(2024, time.May, 31))

	require.Len(t, weeks, 1)
	assert.Equal(t, Date(2024, time.April, 19), weeks[0].WeekEnding)
	// Both months were scanned even though one refused to list.
	assert.Equal(t, 2, monthDirs)
}

func TestWeekDirectoriesUnpaddedNames(t *testing.T) {
	fsys := newFakeFS()
	base := "base"
	fsys.addDir(filepath.Join(base, "worklogs_2024", "worklogs_2024-4", "week_ending_2024-4-9"))

	engine := NewEngine(fsys, nil)
	weeks, _ := engine.WeekDirectories(base, Date(2024, time.April, 1), Date(2024, time.April, 30))
	require.Len(t, weeks, 1)
	assert.Equal(t, Date(2024, time.April, 9), weeks[0].WeekEnding)
}
