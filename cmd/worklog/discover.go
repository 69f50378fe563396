package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mhenders/worklog/internal/discovery"
	"github.com/mhenders/worklog/internal/types"
)

var (
	discoverStart string
	discoverEnd   string
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Scan the worklog layout for a date range",
	Long: `Walk the worklogs_YYYY/worklogs_YYYY-MM/week_ending_* hierarchy for the
given range and report found files, missing files, week groupings and scan
statistics. Defaults to the last 7 days.`,
	Run: func(cmd *cobra.Command, args []string) {
		start, end, err := resolveRange(discoverStart, discoverEnd, 7)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		engine := discovery.NewEngine(nil, logger)
		res := engine.Discover(cfg.BasePath, start, end)

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s\n\n", cyan(fmt.Sprintf("=== Discovery %s .. %s ===",
			start.Format(types.DateLayout), end.Format(types.DateLayout))))

		fmt.Printf("%s\n", yellow("Weeks:"))
		if len(res.DiscoveredWeeks) == 0 {
			fmt.Printf("  %s\n", gray("No week directories found"))
		}
		for _, w := range res.DiscoveredWeeks {
			fmt.Printf("  week ending %s  %d file(s)\n",
				w.WeekEnding.Format(types.DateLayout), w.FileCount)
		}

		fmt.Printf("\n%s\n", yellow("Files:"))
		for _, path := range res.FoundFiles {
			fmt.Printf("  %s %s\n", green("✓"), path)
		}
		for _, path := range res.MissingFiles {
			fmt.Printf("  %s %s\n", red("✗"), gray(path))
		}

		fmt.Printf("\nFound %s of %d expected, %s missing (%d month dirs, %dms)\n",
			green(fmt.Sprintf("%d", len(res.FoundFiles))),
			res.TotalExpected,
			red(fmt.Sprintf("%d", len(res.MissingFiles))),
			res.ScanStats[discovery.StatDirectoriesScanned],
			res.ScanStats[discovery.StatScanDurationMS])
	},
}

func init() {
	discoverCmd.Flags().StringVar(&discoverStart, "start", "", "range start (YYYY-MM-DD)")
	discoverCmd.Flags().StringVar(&discoverEnd, "end", "", "range end (YYYY-MM-DD)")
	rootCmd.AddCommand(discoverCmd)
}

// resolveRange parses optional start/end strings, defaulting to the
// trailing window of days ending today.
func resolveRange(startStr, endStr string, days int) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	end := discovery.Date(now.Year(), now.Month(), now.Day())
	start := end.AddDate(0, 0, -(days - 1))
	if endStr != "" {
		d, err := time.ParseInLocation(types.DateLayout, endStr, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q: expected YYYY-MM-DD", endStr)
		}
		end = d
	}
	if startStr != "" {
		d, err := time.ParseInLocation(types.DateLayout, startStr, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q: expected YYYY-MM-DD", startStr)
		}
		start = d
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start date %s is after end date %s",
			start.Format(types.DateLayout), end.Format(types.DateLayout))
	}
	return start, end, nil
}
