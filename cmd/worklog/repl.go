package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mhenders/worklog/internal/ai"
	"github.com/mhenders/worklog/internal/discovery"
	"github.com/mhenders/worklog/internal/entry"
	"github.com/mhenders/worklog/internal/storage"
	"github.com/mhenders/worklog/internal/types"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive journal console",
	Long: `An interactive console for quick journaling:

  jot <text>          append to today's entry
  show [date]         print an entry (default today)
  discover <s> <e>    scan a date range
  summarize <s> <e>   AI summary of a range (needs ANTHROPIC_API_KEY)
  help                list commands
  exit                leave`,
	Run: func(cmd *cobra.Command, args []string) {
		store := mustOpenStore()
		defer store.Close()

		r := &console{
			store:   store,
			entries: newEntryManager(store),
		}
		if err := r.run(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

type console struct {
	store   storage.Store
	entries *entry.Manager
}

func (r *console) run(ctx context.Context) error {
	cyan := color.New(color.FgCyan).SprintFunc()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            cyan("worklog> "),
		HistoryFile:       discovery.ExpandHome("~/.worklog/repl_history"),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]
		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			fmt.Println("commands: jot <text>, show [date], discover <start> <end>, summarize <start> <end>, exit")
		case "jot":
			r.jot(ctx, strings.TrimSpace(strings.TrimPrefix(line, "jot")))
		case "show":
			r.show(ctx, args)
		case "discover":
			r.discover(args)
		case "summarize":
			r.summarize(ctx, args)
		default:
			fmt.Printf("unknown command %q (try 'help')\n", cmd)
		}
	}
}

func (r *console) jot(ctx context.Context, text string) {
	if text == "" {
		fmt.Println("usage: jot <text>")
		return
	}
	e, err := r.entries.Append(ctx, todayUTC(), text)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Printf("%s %s\n", color.GreenString("✓"), e.Path)
}

func (r *console) show(ctx context.Context, args []string) {
	date := todayUTC()
	if len(args) > 0 {
		d, err := time.ParseInLocation(types.DateLayout, args[0], time.UTC)
		if err != nil {
			fmt.Printf("invalid date %q\n", args[0])
			return
		}
		date = d
	}
	e, err := r.entries.Read(ctx, date)
	if errors.Is(err, entry.ErrNotFound) {
		fmt.Printf("no entry for %s\n", date.Format(types.DateLayout))
		return
	}
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Printf("%s\n%s\n", color.HiBlackString(e.Path), e.Content)
}

func (r *console) discover(args []string) {
	if len(args) != 2 {
		fmt.Println("usage: discover <start> <end>")
		return
	}
	start, end, err := resolveRange(args[0], args[1], 7)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	res := r.entries.Discover(start, end)
	fmt.Printf("found %d of %d expected, %d missing, %d week(s)\n",
		len(res.FoundFiles), res.TotalExpected, len(res.MissingFiles), len(res.DiscoveredWeeks))
}

func (r *console) summarize(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: summarize <start> <end>")
		return
	}
	start, end, err := resolveRange(args[0], args[1], 7)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	summarizer, err := ai.NewSummarizer(cfg.AI, r.entries, r.store, logger)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	summary, err := summarizer.SummarizeRange(ctx, start, end)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Printf("\n%s\n", summary.Content)
}
