package discovery

import (
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"
)

// Engine runs discovery over the worklog layout. It holds no mutable state
// beyond its injected dependencies, so a single Engine is safe to share
// across concurrent requests.
type Engine struct {
	fs  Filesystem
	log *log.Logger
}

// NewEngine builds an Engine. A nil fs defaults to the real filesystem and
// a nil logger discards output.
func NewEngine(fsys Filesystem, logger *log.Logger) *Engine {
	if fsys == nil {
		fsys = OSFilesystem()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Engine{fs: fsys, log: logger}
}

// Discover scans basePath for worklog files dated within [start, end]
// inclusive and returns the found/missing partition plus scan statistics.
//
// Discover never returns nil and never panics to the caller: an inverted
// range or a base path that does not exist degrades to a well-formed
// result, and an unexpected failure is converted into an empty result
// whose stats carry an error marker. Duration is recorded on every path.
func (e *Engine) Discover(basePath string, start, end time.Time) (res *Result) {
	started := time.Now()
	start, end = normalizeDate(start), normalizeDate(end)
	res = newEmptyResult(start, end)

	defer func() {
		if r := recover(); r != nil {
			e.log.Printf("discovery: recovered from panic: %v", r)
			*res = *newEmptyResult(start, end)
			res.ScanStats[StatError] = 1
		}
		res.ProcessingSeconds = time.Since(started).Seconds()
		res.ScanStats[StatScanDurationMS] = int(time.Since(started).Milliseconds())
	}()

	if start.After(end) {
		return res
	}
	base := ExpandHome(basePath)

	weeks, monthDirs := e.WeekDirectories(base, start, end)
	found, missing := e.extractFiles(weeks, start, end)
	if len(weeks) == 0 {
		// No week directories means the extractor had nowhere to place
		// missing paths; synthesize them under the canonical layout so
		// found+missing still covers every day of the range.
		missing = e.canonicalMissing(base, start, end)
	}

	res.FoundFiles = found
	res.MissingFiles = missing
	res.TotalExpected = daysInRange(start, end)
	res.DiscoveredWeeks = e.countWeekFiles(weeks, start, end)
	res.ScanStats[StatDirectoriesScanned] = monthDirs
	res.ScanStats[StatValidWeekDirectories] = len(weeks)
	res.ScanStats[StatTotalFilesFound] = len(found)
	return res
}

// countWeekFiles produces the discovered-weeks listing: one (week-ending,
// file count) pair per week directory, counting only in-range worklog
// files. weeks is already chronological.
func (e *Engine) countWeekFiles(weeks []WeekDirectory, start, end time.Time) []DiscoveredWeek {
	out := make([]DiscoveredWeek, 0, len(weeks))
	for _, wd := range weeks {
		count := 0
		children, err := e.fs.ReadDir(wd.Path)
		if err == nil {
			for _, ent := range children {
				if !ent.Type().IsRegular() {
					continue
				}
				if !strings.EqualFold(filepath.Ext(ent.Name()), worklogExt) {
					continue
				}
				if date, ok := ParseWorklogFilename(ent.Name()); ok && !date.Before(start) && !date.After(end) {
					count++
				}
			}
		}
		out = append(out, DiscoveredWeek{WeekEnding: wd.WeekEnding, FileCount: count})
	}
	return out
}

// canonicalMissing synthesizes one expected path per day of the range
// under the conventional layout with Friday week-ending labels.
func (e *Engine) canonicalMissing(base string, start, end time.Time) []string {
	missing := make([]string, 0, daysInRange(start, end))
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		missing = append(missing, CanonicalEntryPath(base, d))
	}
	return missing
}

// CanonicalWeekEnding returns the default week-ending label for a date:
// the Friday of its work week, with Saturday and Sunday rolling forward
// to the next Friday. Existing directories always take precedence over
// this label; it is only used when a new week grouping has to be named.
func CanonicalWeekEnding(d time.Time) time.Time {
	d = normalizeDate(d)
	offset := (int(time.Friday) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset)
}

// CanonicalEntryPath returns the full expected path for a date's worklog
// file under the conventional layout rooted at base.
func CanonicalEntryPath(base string, d time.Time) string {
	d = normalizeDate(d)
	return filepath.Join(base, YearDirName(d), MonthDirName(d),
		WeekEndingName(CanonicalWeekEnding(d)), WorklogFilename(d))
}

func daysInRange(start, end time.Time) int {
	if start.After(end) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}
