package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mhenders/worklog/internal/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index statistics and configuration",
	Run: func(cmd *cobra.Command, args []string) {
		store := mustOpenStore()
		defer store.Close()

		stats, err := store.Stats(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s\n\n", cyan("=== Worklog Status ==="))
		fmt.Printf("%s\n", yellow("Index:"))
		fmt.Printf("  Entries:   %d\n", stats.EntryCount)
		fmt.Printf("  Summaries: %d\n", stats.SummaryCount)
		if stats.FirstDate != nil && stats.LastDate != nil {
			fmt.Printf("  Range:     %s .. %s\n",
				stats.FirstDate.Format(types.DateLayout), stats.LastDate.Format(types.DateLayout))
		} else {
			fmt.Printf("  Range:     %s\n", gray("empty"))
		}

		fmt.Printf("\n%s\n", yellow("Config:"))
		fmt.Printf("  Base path: %s\n", cfg.ExpandedBasePath())
		fmt.Printf("  Database:  %s\n", cfg.ExpandedDBPath())
		fmt.Printf("  Listen:    %s\n", cfg.ListenAddr)
		fmt.Printf("  Model:     %s\n", cfg.AI.Model)
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
