// Package calendar builds the month-grid view model the web UI renders.
package calendar

import (
	"path/filepath"
	"time"

	"github.com/mhenders/worklog/internal/discovery"
)

// Day is one cell of the grid.
type Day struct {
	Date     time.Time `json:"date"`
	InMonth  bool      `json:"in_month"`
	HasEntry bool      `json:"has_entry"`
	Path     string    `json:"path,omitempty"`
}

// Week is one Monday-to-Sunday row.
type Week struct {
	Days []Day `json:"days"`
}

// MonthGrid is the calendar for one month, padded to full weeks.
type MonthGrid struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Weeks []Week     `json:"weeks"`
}

// Service renders month grids from discovery results.
type Service struct {
	base   string
	engine *discovery.Engine
}

// NewService builds a calendar service over the given base path.
func NewService(base string, engine *discovery.Engine) *Service {
	return &Service{base: discovery.ExpandHome(base), engine: engine}
}

// MonthGrid runs discovery over the padded month range and marks each day
// that has an entry on disk. The padding days belong to adjacent months;
// cross-month week directories are handled by discovery itself.
func (s *Service) MonthGrid(year int, month time.Month) *MonthGrid {
	first := discovery.Date(year, month, 1)
	last := first.AddDate(0, 1, -1)
	gridStart := backToMonday(first)
	gridEnd := forwardToSunday(last)

	// Scan six days past the grid so a week directory whose ending label
	// falls just after the last row still contributes its files.
	res := s.engine.Discover(s.base, gridStart, gridEnd.AddDate(0, 0, 6))
	byDate := make(map[time.Time]string, len(res.FoundFiles))
	for _, path := range res.FoundFiles {
		if d, ok := discovery.ParseWorklogFilename(filepath.Base(path)); ok {
			byDate[d] = path
		}
	}

	grid := &MonthGrid{Year: year, Month: month}
	for weekStart := gridStart; !weekStart.After(gridEnd); weekStart = weekStart.AddDate(0, 0, 7) {
		week := Week{Days: make([]Day, 0, 7)}
		for i := 0; i < 7; i++ {
			d := weekStart.AddDate(0, 0, i)
			path, has := byDate[d]
			week.Days = append(week.Days, Day{
				Date:     d,
				InMonth:  d.Month() == month && d.Year() == year,
				HasEntry: has,
				Path:     path,
			})
		}
		grid.Weeks = append(grid.Weeks, week)
	}
	return grid
}

func backToMonday(d time.Time) time.Time {
	offset := (int(d.Weekday()) - int(time.Monday) + 7) % 7
	return d.AddDate(0, 0, -offset)
}

func forwardToSunday(d time.Time) time.Time {
	offset := (int(time.Sunday) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset)
}
