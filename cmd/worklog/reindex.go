package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mhenders/worklog/internal/discovery"
)

var (
	reindexStart string
	reindexEnd   string
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Reconcile the SQL index against the files on disk",
	Long: `Run discovery over the range (default: the last 365 days) and bring the
SQLite index in line with it: found files gain or refresh rows, indexed
dates with no backing file are removed.`,
	Run: func(cmd *cobra.Command, args []string) {
		start, end, err := resolveRange(reindexStart, reindexEnd, 365)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		store := mustOpenStore()
		defer store.Close()

		engine := discovery.NewEngine(nil, logger)
		res := engine.Discover(cfg.BasePath, start, end)

		indexed, removed, err := store.ReconcileDiscovery(context.Background(), res)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s indexed %d entries, removed %d stale rows (%d files on disk, %dms scan)\n",
			green("✓"), indexed, removed, len(res.FoundFiles),
			res.ScanStats[discovery.StatScanDurationMS])
	},
}

func init() {
	reindexCmd.Flags().StringVar(&reindexStart, "start", "", "range start (YYYY-MM-DD)")
	reindexCmd.Flags().StringVar(&reindexEnd, "end", "", "range end (YYYY-MM-DD)")
	rootCmd.AddCommand(reindexCmd)
}
