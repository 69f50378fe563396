package discovery

import "time"

// Stat keys recorded in Result.ScanStats.
const (
	// StatDirectoriesScanned counts the year+month directory pairs whose
	// calendar span overlapped the requested range.
	StatDirectoriesScanned = "directories_scanned"
	// StatValidWeekDirectories counts week directories whose name parsed
	// and whose week-ending date fell inside the range.
	StatValidWeekDirectories = "valid_week_directories"
	// StatTotalFilesFound counts found worklog files.
	StatTotalFilesFound = "total_files_found"
	// StatScanDurationMS is the wall-clock scan duration in milliseconds.
	StatScanDurationMS = "scan_duration_ms"
	// StatError is set to 1 when discovery recovered from an unexpected
	// failure and returned a degraded empty result.
	StatError = "error"
)

// WeekDirectory is a discovered (path, week-ending date) pair. The date is
// read from the directory name as-is and treated as an opaque grouping key.
type WeekDirectory struct {
	Path       string
	WeekEnding time.Time
}

// DiscoveredWeek pairs a week-ending date with the number of in-range
// worklog files found under its directory.
type DiscoveredWeek struct {
	WeekEnding time.Time `json:"week_ending"`
	FileCount  int       `json:"file_count"`
}

// Result is the outcome of one discovery call. It is constructed once and
// never mutated afterward.
//
// For a valid (non-inverted) range,
// len(FoundFiles)+len(MissingFiles) == TotalExpected == days in the range.
// When the range is invalid all three are empty/zero.
type Result struct {
	FoundFiles        []string         `json:"found_files"`
	MissingFiles      []string         `json:"missing_files"`
	TotalExpected     int              `json:"total_expected"`
	StartDate         time.Time        `json:"start_date"`
	EndDate           time.Time        `json:"end_date"`
	ProcessingSeconds float64          `json:"processing_seconds"`
	DiscoveredWeeks   []DiscoveredWeek `json:"discovered_weeks"`
	ScanStats         map[string]int   `json:"scan_stats"`
}

func newEmptyResult(start, end time.Time) *Result {
	return &Result{
		FoundFiles:      []string{},
		MissingFiles:    []string{},
		StartDate:       start,
		EndDate:         end,
		DiscoveredWeeks: []DiscoveredWeek{},
		ScanStats:       map[string]int{},
	}
}
