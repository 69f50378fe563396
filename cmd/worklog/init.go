package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mhenders/worklog/internal/discovery"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the base directory layout and the index database",
	Run: func(cmd *cobra.Command, args []string) {
		base := cfg.ExpandedBasePath()
		date := todayUTC()
		weekDir := filepath.Dir(discovery.CanonicalEntryPath(base, date))

		if err := os.MkdirAll(weekDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: creating %s: %v\n", weekDir, err)
			os.Exit(1)
		}

		store, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		store.Close()

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s base layout at %s\n", green("✓"), weekDir)
		fmt.Printf("%s index database at %s\n", green("✓"), cfg.ExpandedDBPath())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
