package discovery

import (
	"path/filepath"
	"strings"
	"time"
)

// extractFiles partitions the dates of [start, end] into found and missing
// worklog files across the given week directories. weekDirs must be in the
// scanner's chronological order.
//
// Found paths come out in directory-then-listing order. The first file to
// satisfy a date wins; a duplicate date in an overlapping week directory is
// not recorded again, which keeps found+missing equal to the day count.
func (e *Engine) extractFiles(weekDirs []WeekDirectory, start, end time.Time) (found, missing []string) {
	found, missing = []string{}, []string{}
	if len(weekDirs) == 0 || start.After(end) {
		return found, missing
	}

	pending := make(map[time.Time]bool)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		pending[d] = true
	}

	for _, wd := range weekDirs {
		children, err := e.fs.ReadDir(wd.Path)
		if err != nil {
			// Skip just this directory; its dates stay candidates for
			// the missing list.
			e.log.Printf("discovery: listing %s: %v", wd.Path, err)
			continue
		}
		for _, ent := range children {
			if !ent.Type().IsRegular() {
				continue
			}
			if !strings.EqualFold(filepath.Ext(ent.Name()), worklogExt) {
				continue
			}
			date, ok := ParseWorklogFilename(ent.Name())
			if !ok || date.Before(start) || date.After(end) {
				continue
			}
			if !pending[date] {
				continue
			}
			found = append(found, filepath.Join(wd.Path, ent.Name()))
			delete(pending, date)
		}
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !pending[d] {
			continue
		}
		dir, ok := weekDirFor(weekDirs, d)
		if !ok {
			continue
		}
		missing = append(missing, filepath.Join(dir, WorklogFilename(d)))
	}
	return found, missing
}

// weekDirFor picks the directory where a missing date's file would be
// expected: the first directory whose [weekEnding-6d, weekEnding] window
// covers the date, else the smallest week-ending date >= the date, else
// the first directory in the list.
func weekDirFor(weekDirs []WeekDirectory, d time.Time) (string, bool) {
	for _, wd := range weekDirs {
		windowStart := wd.WeekEnding.AddDate(0, 0, -6)
		if !d.Before(windowStart) && !d.After(wd.WeekEnding) {
			return wd.Path, true
		}
	}
	for _, wd := range weekDirs {
		if !wd.WeekEnding.Before(d) {
			return wd.Path, true
		}
	}
	if len(weekDirs) > 0 {
		return weekDirs[0].Path, true
	}
	return "", false
}
