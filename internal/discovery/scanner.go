package discovery

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const worklogsPrefix = "worklogs_"

// WeekDirectories walks base/worklogs_YYYY/worklogs_YYYY-MM and returns
// every week directory whose week-ending date falls inside [start, end],
// sorted ascending by date. The second return is the number of month
// directories whose calendar span overlapped the range.
//
// Anything that fails to parse is skipped silently, and any directory that
// cannot be listed contributes nothing; the scan never fails as a whole.
func (e *Engine) WeekDirectories(base string, start, end time.Time) ([]WeekDirectory, int) {
	start, end = normalizeDate(start), normalizeDate(end)
	var weeks []WeekDirectory
	monthDirs := 0

	years, err := e.fs.ReadDir(base)
	if err != nil {
		e.log.Printf("discovery: listing %s: %v", base, err)
		return nil, 0
	}
	for _, yearEnt := range years {
		if !yearEnt.IsDir() {
			continue
		}
		yearStr, ok := strings.CutPrefix(yearEnt.Name(), worklogsPrefix)
		if !ok || len(yearStr) < 4 {
			continue
		}
		year, err := strconv.Atoi(yearStr)
		if err != nil || year < start.Year() || year > end.Year() {
			continue
		}
		yearPath := filepath.Join(base, yearEnt.Name())
		months, err := e.fs.ReadDir(yearPath)
		if err != nil {
			e.log.Printf("discovery: listing %s: %v", yearPath, err)
			continue
		}
		for _, monthEnt := range months {
			if !monthEnt.IsDir() {
				continue
			}
			mYear, mMonth, ok := parseMonthDirName(monthEnt.Name())
			if !ok {
				continue
			}
			// Overlap test against the month's full calendar span, so a
			// week directory filed under April can still surface files
			// dated in May.
			monthStart := Date(mYear, time.Month(mMonth), 1)
			monthEnd := monthStart.AddDate(0, 1, -1)
			if monthEnd.Before(start) || monthStart.After(end) {
				continue
			}
			monthDirs++
			monthPath := filepath.Join(yearPath, monthEnt.Name())
			children, err := e.fs.ReadDir(monthPath)
			if err != nil {
				e.log.Printf("discovery: listing %s: %v", monthPath, err)
				continue
			}
			for _, weekEnt := range children {
				if !weekEnt.IsDir() {
					continue
				}
				weekEnding, ok := ParseWeekEndingName(weekEnt.Name())
				if !ok || weekEnding.Before(start) || weekEnding.After(end) {
					continue
				}
				weeks = append(weeks, WeekDirectory{
					Path:       filepath.Join(monthPath, weekEnt.Name()),
					WeekEnding: weekEnding,
				})
			}
		}
	}

	sort.Slice(weeks, func(i, j int) bool {
		return weeks[i].WeekEnding.Before(weeks[j].WeekEnding)
	})
	return weeks, monthDirs
}

// parseMonthDirName parses worklogs_YYYY-MM into (year, month).
func parseMonthDirName(name string) (int, int, bool) {
	rest, ok := strings.CutPrefix(name, worklogsPrefix)
	if !ok {
		return 0, 0, false
	}
	parts := strings.SplitN(rest, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}
