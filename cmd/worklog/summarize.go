package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mhenders/worklog/internal/ai"
	"github.com/mhenders/worklog/internal/types"
)

var (
	summarizeStart string
	summarizeEnd   string
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Generate an AI summary over a date range",
	Long: `Load the range's journal entries, ask the configured Anthropic model for
a summary, save it to the index, and print it. Requires ANTHROPIC_API_KEY.
Defaults to the last 7 days.`,
	Run: func(cmd *cobra.Command, args []string) {
		start, end, err := resolveRange(summarizeStart, summarizeEnd, 7)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		store := mustOpenStore()
		defer store.Close()

		summarizer, err := ai.NewSummarizer(cfg.AI, newEntryManager(store), store, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		summary, err := summarizer.SummarizeRange(context.Background(), start, end)
		if errors.Is(err, ai.ErrNoEntries) {
			fmt.Fprintf(os.Stderr, "No journal entries between %s and %s\n",
				start.Format(types.DateLayout), end.Format(types.DateLayout))
			os.Exit(1)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()
		fmt.Printf("\n%s\n\n%s\n\n%s\n", cyan(fmt.Sprintf("=== Summary %s .. %s ===",
			start.Format(types.DateLayout), end.Format(types.DateLayout))),
			summary.Content,
			gray(fmt.Sprintf("saved as %s (model %s)", summary.ID, summary.Model)))
	},
}

func init() {
	summarizeCmd.Flags().StringVar(&summarizeStart, "start", "", "range start (YYYY-MM-DD)")
	summarizeCmd.Flags().StringVar(&summarizeEnd, "end", "", "range end (YYYY-MM-DD)")
	rootCmd.AddCommand(summarizeCmd)
}
