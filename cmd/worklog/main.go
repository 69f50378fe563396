// worklog is a personal work-journal application: daily entries stored as
// text files in a date-derived directory layout, indexed in SQLite,
// browsable over HTTP, and summarizable through the Anthropic API.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/mhenders/worklog/internal/config"
	"github.com/mhenders/worklog/internal/discovery"
	"github.com/mhenders/worklog/internal/entry"
	"github.com/mhenders/worklog/internal/storage"
	"github.com/mhenders/worklog/internal/storage/sqlite"
)

var (
	cfgPath string
	cfg     *config.Config
	logger  *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "worklog",
	Short: "Personal work journal with calendar browsing and AI summaries",
	Long: `worklog keeps daily journal entries as plain text files under
<base>/worklogs_YYYY/worklogs_YYYY-MM/week_ending_YYYY-MM-DD/worklog_YYYY-MM-DD.txt,
mirrors them into a SQLite index, and serves them to a web UI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = log.New(os.Stderr, "", log.LstdFlags)
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if base, _ := cmd.Flags().GetString("base"); base != "" {
			cfg.BasePath = base
		}
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.worklog/config.yaml)")
	rootCmd.PersistentFlags().String("base", "", "override the worklog base path")
}

// openStore opens the SQLite index from config.
func openStore() (storage.Store, error) {
	store, err := sqlite.New(cfg.ExpandedDBPath())
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}
	return store, nil
}

// newEntryManager wires the discovery engine and entry manager. store may
// be nil for read-only commands that do not touch the index.
func newEntryManager(store storage.Store) *entry.Manager {
	engine := discovery.NewEngine(nil, logger)
	return entry.NewManager(cfg.BasePath, engine, store, logger)
}
