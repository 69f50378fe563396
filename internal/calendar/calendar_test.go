package calendar

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhenders/worklog/internal/discovery"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	base := t.TempDir()
	return NewService(base, discovery.NewEngine(nil, nil)), base
}

func writeEntry(t *testing.T, base string, weekEnding, day time.Time) {
	t.Helper()
	dir := filepath.Join(base,
		discovery.YearDirName(weekEnding),
		discovery.MonthDirName(weekEnding),
		discovery.WeekEndingName(weekEnding))
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, discovery.WorklogFilename(day)), []byte("x\n"), 0644))
}

// April 2024 starts on a Monday and ends on a Tuesday, so the grid runs
// April 1 through May 5: five full Monday-to-Sunday rows.
func TestMonthGridShape(t *testing.T) {
	svc, _ := newTestService(t)

	grid := svc.MonthGrid(2024, time.April)

	require.Len(t, grid.Weeks, 5)
	for _, week := range grid.Weeks {
		require.Len(t, week.Days, 7)
		assert.Equal(t, time.Monday, week.Days[0].Date.Weekday())
		assert.Equal(t, time.Sunday, week.Days[6].Date.Weekday())
	}
	assert.Equal(t, discovery.Date(2024, time.April, 1), grid.Weeks[0].Days[0].Date)
	assert.Equal(t, discovery.Date(2024, time.May, 5), grid.Weeks[4].Days[6].Date)
}

func TestMonthGridPaddingDays(t *testing.T) {
	svc, _ := newTestService(t)

	// March 2024 ends on a Sunday and starts on a Friday, so the first row
	// reaches back into February.
	grid := svc.MonthGrid(2024, time.March)

	first := grid.Weeks[0]
	assert.Equal(t, discovery.Date(2024, time.February, 26), first.Days[0].Date)
	assert.False(t, first.Days[0].InMonth)
	assert.True(t, first.Days[4].InMonth) // March 1

	last := grid.Weeks[len(grid.Weeks)-1]
	assert.Equal(t, discovery.Date(2024, time.March, 31), last.Days[6].Date)
	assert.True(t, last.Days[6].InMonth)
}

func TestMonthGridMarksEntries(t *testing.T) {
	svc, base := newTestService(t)
	writeEntry(t, base, discovery.Date(2024, time.April, 19), discovery.Date(2024, time.April, 15))

	grid := svc.MonthGrid(2024, time.April)

	var marked []time.Time
	for _, week := range grid.Weeks {
		for _, day := range week.Days {
			if day.HasEntry {
				marked = append(marked, day.Date)
				assert.NotEmpty(t, day.Path)
			}
		}
	}
	require.Len(t, marked, 1)
	assert.Equal(t, discovery.Date(2024, time.April, 15), marked[0])
}

// An entry on the grid's final Sunday lives in a week directory whose
// ending label falls in the following week; it must still be marked.
func TestMonthGridTrailingWeekDirectory(t *testing.T) {
	svc, base := newTestService(t)
	sunday := discovery.Date(2024, time.May, 5)
	writeEntry(t, base, discovery.CanonicalWeekEnding(sunday), sunday)

	grid := svc.MonthGrid(2024, time.April)

	last := grid.Weeks[len(grid.Weeks)-1]
	day := last.Days[6]
	require.Equal(t, sunday, day.Date)
	assert.True(t, day.HasEntry)
	assert.False(t, day.InMonth)
}
