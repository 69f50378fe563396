package discovery

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	weekEndingPrefix = "week_ending_"
	worklogPrefix    = "worklog_"
	worklogExt       = ".txt"
	dateLayout       = "2006-01-02"
)

// ParseWeekEndingName parses a directory name of the form
// week_ending_YYYY-MM-DD into a calendar date. Month and day may be
// zero-padded or not. The boolean is false for anything that is not a
// well-formed name holding a real calendar date; this is the expected
// outcome for most entries during a scan, not an error.
func ParseWeekEndingName(name string) (time.Time, bool) {
	name = strings.TrimSpace(name)
	rest, ok := strings.CutPrefix(name, weekEndingPrefix)
	if !ok {
		return time.Time{}, false
	}
	return parseDateTriple(rest)
}

// ParseWorklogFilename parses a file name of the form worklog_YYYY-MM-DD.txt
// into a calendar date. The .txt extension must be exact (lower case); a
// file admitted by a case-insensitive suffix filter but carrying .TXT will
// fail here and be skipped, which is the documented behavior.
func ParseWorklogFilename(name string) (time.Time, bool) {
	name = strings.TrimSpace(name)
	rest, ok := strings.CutPrefix(name, worklogPrefix)
	if !ok {
		return time.Time{}, false
	}
	rest, ok = strings.CutSuffix(rest, worklogExt)
	if !ok {
		return time.Time{}, false
	}
	return parseDateTriple(rest)
}

// parseDateTriple parses "Y-M-D" with exactly two dashes into a UTC
// midnight date. Components go through strconv.Atoi, so a leading sign is
// tolerated ("+2024-01-01" parses); that quirk is preserved from the
// tooling that writes these names. After the [1,9999]/[1,12]/[1,31]
// pre-checks the triple must survive time.Date normalization unchanged,
// which rejects Feb 29 in non-leap years, April 31, and the like.
func parseDateTriple(s string) (time.Time, bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, false
	}
	if year < 1 || year > 9999 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// WeekEndingName formats a date into its directory name form.
func WeekEndingName(d time.Time) string {
	return weekEndingPrefix + d.Format(dateLayout)
}

// WorklogFilename formats a date into its file name form.
func WorklogFilename(d time.Time) string {
	return worklogPrefix + d.Format(dateLayout) + worklogExt
}

// YearDirName formats the year-level directory name (worklogs_YYYY).
func YearDirName(d time.Time) string {
	return fmt.Sprintf("worklogs_%04d", d.Year())
}

// MonthDirName formats the month-level directory name (worklogs_YYYY-MM).
func MonthDirName(d time.Time) string {
	return fmt.Sprintf("worklogs_%04d-%02d", d.Year(), int(d.Month()))
}

// Date truncates t to a UTC midnight calendar date. All dates inside this
// package are normalized through it so map keys and comparisons line up.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func normalizeDate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}
