// Package discovery maps calendar date ranges onto the on-disk worklog
// layout and reconciles what it finds against what the range expects.
//
// The layout it consumes is:
//
//	<base>/worklogs_YYYY/worklogs_YYYY-MM/week_ending_YYYY-MM-DD/worklog_YYYY-MM-DD.txt
//
// The week_ending label is an arbitrary grouping key chosen when the
// directory was created. It is NOT necessarily the calendar Friday (or
// Sunday) of the week containing its files, and a week directory under
// worklogs_2024-04 can legitimately hold files dated in May. Discovery
// therefore never computes expected paths from calendar arithmetic alone;
// it reads the directory names that actually exist and filters them by
// date range. The scan cost is bounded by directory count, not by the
// length of the requested range.
//
// The package is a leaf: it reads the filesystem through an injected
// Filesystem and has no other dependencies. Discovery never returns an
// error to its caller. Malformed names are filtered, unreadable branches
// degrade to empty, and anything unexpected is converted into an empty
// Result carrying an error marker in its stats.
package discovery
