package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mhenders/worklog/internal/discovery"
	"github.com/mhenders/worklog/internal/storage"
	"github.com/mhenders/worklog/internal/types"
)

var todayDate string

var todayCmd = &cobra.Command{
	Use:   "today [text...]",
	Short: "Append to today's journal entry",
	Long: `Append text to today's entry, creating the file (and its week directory)
if needed. Text comes from the arguments, or from stdin when piped. With no
text at all, prints the entry's path and current contents.`,
	Run: func(cmd *cobra.Command, args []string) {
		date := todayUTC()
		if todayDate != "" {
			d, err := time.ParseInLocation(types.DateLayout, todayDate, time.UTC)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: invalid date %q: expected YYYY-MM-DD\n", todayDate)
				os.Exit(1)
			}
			date = d
		}

		store := mustOpenStore()
		defer store.Close()
		manager := newEntryManager(store)
		ctx := context.Background()

		text := strings.Join(args, " ")
		if text == "" {
			if stat, _ := os.Stdin.Stat(); stat != nil && stat.Mode()&os.ModeCharDevice == 0 {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error: reading stdin: %v\n", err)
					os.Exit(1)
				}
				text = strings.TrimRight(string(data), "\n")
			}
		}

		green := color.New(color.FgGreen).SprintFunc()
		if text == "" {
			e, err := manager.Read(ctx, date)
			if err != nil {
				fmt.Printf("No entry for %s yet (would live at %s)\n",
					date.Format(types.DateLayout), manager.Path(date))
				return
			}
			fmt.Printf("%s\n\n%s\n", green(e.Path), e.Content)
			return
		}

		e, err := manager.Append(ctx, date, text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s %s\n", green("✓"), e.Path)
	},
}

func init() {
	todayCmd.Flags().StringVar(&todayDate, "date", "", "write to a specific date instead of today (YYYY-MM-DD)")
	rootCmd.AddCommand(todayCmd)
}

func todayUTC() time.Time {
	now := time.Now().UTC()
	return discovery.Date(now.Year(), now.Month(), now.Day())
}

// mustOpenStore opens the index or exits. Used by commands where running
// without the index would silently skip bookkeeping.
func mustOpenStore() storage.Store {
	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return store
}
