package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mhenders/worklog/internal/ai"
	"github.com/mhenders/worklog/internal/calendar"
	"github.com/mhenders/worklog/internal/discovery"
	"github.com/mhenders/worklog/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the worklog HTTP server",
	Long: `Serve the journal over HTTP: entries, calendar grids, discovery results,
settings and summaries. Summarization endpoints require ANTHROPIC_API_KEY;
without it the server runs and those endpoints answer 503.`,
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		engine := discovery.NewEngine(nil, logger)
		entries := newEntryManager(store)

		var summarizer server.RangeSummarizer
		s, err := ai.NewSummarizer(cfg.AI, entries, store, logger)
		switch {
		case err == nil:
			summarizer = s
		case errors.Is(err, ai.ErrNoAPIKey):
			logger.Printf("serve: ANTHROPIC_API_KEY not set, summarization disabled")
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		srv := server.New(server.Deps{
			Config:     cfg,
			Engine:     engine,
			Entries:    entries,
			Calendar:   calendar.NewService(cfg.BasePath, engine),
			Store:      store,
			Summarizer: summarizer,
			Logger:     logger,
		})
		if err := srv.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
