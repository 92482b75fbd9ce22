package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wltrans/internal/history"
	"github.com/jmylchreest/wltrans/internal/output"
)

var historyOpts struct {
	format   string
	limit    int
	template string
	since    string
	lang     string
	search   string
}

var pruneOpts struct {
	olderThan string
	keep      int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past translations",
	Long: `List past translations, newest first.

Examples:
  # Last ten translations
  wltrans history --limit 10

  # Machine readable
  wltrans history --format json

  # Only the results
  wltrans history --template '{{.Result}}'

  # German translations from the last week mentioning "zug"
  wltrans history --lang de --since 7d --search zug`,
	RunE: runHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old translations from history",
	Long: `Remove old translations from the history file.

Examples:
  # Remove translations older than 30 days
  wltrans history prune --older-than 30d

  # Keep only the 100 most recent translations
  wltrans history prune --keep 100`,
	RunE: runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyPruneCmd)

	historyCmd.Flags().StringVar(&historyOpts.format, "format", "plain",
		"Output format (plain, json, yaml)")
	historyCmd.Flags().IntVar(&historyOpts.limit, "limit", 0,
		"Maximum entries to show (0=unlimited)")
	historyCmd.Flags().StringVar(&historyOpts.template, "template", "",
		"Go template for plain output (fields: Index, ID, From, To, Source, Result, RelativeTime)")
	historyCmd.Flags().StringVar(&historyOpts.since, "since", "",
		"Only show translations newer than this age (e.g., 48h, 7d, 2w)")
	historyCmd.Flags().StringVar(&historyOpts.lang, "lang", "",
		"Only show translations from or to this language code")
	historyCmd.Flags().StringVar(&historyOpts.search, "search", "",
		"Only show translations containing this text (case-insensitive)")

	historyPruneCmd.Flags().StringVar(&pruneOpts.olderThan, "older-than", "",
		"Remove translations older than this age (e.g., 48h, 7d, 2w)")
	historyPruneCmd.Flags().IntVar(&pruneOpts.keep, "keep", 0,
		"Keep only the N most recent translations (0=unlimited)")
}

// openHistoryForCommand opens the history file even when recording is
// disabled, so past entries stay readable.
func openHistoryForCommand() (*history.Store, error) {
	return history.Open(historyPath(), cfg.History.MaxEntries, logger)
}

func runHistory(cmd *cobra.Command, args []string) error {
	opts := output.DefaultFormatterOptions()
	opts.Template = historyOpts.template
	formatter, err := output.NewFormatter(output.FormatType(historyOpts.format), opts)
	if err != nil {
		return err
	}

	since, err := history.ParseAge(historyOpts.since)
	if err != nil {
		return err
	}

	store, err := openHistoryForCommand()
	if err != nil {
		return err
	}
	defer store.Close()

	entries := history.Filter(store.List(0), history.FilterOptions{
		Since:  since,
		Lang:   historyOpts.lang,
		Search: historyOpts.search,
		Limit:  historyOpts.limit,
	}, time.Now())
	return formatter.Format(cmd.OutOrStdout(), entries)
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	if pruneOpts.olderThan == "" && pruneOpts.keep == 0 {
		return errors.New("specify --older-than or --keep")
	}
	if pruneOpts.keep < 0 {
		return fmt.Errorf("--keep must not be negative")
	}

	age, err := history.ParseAge(pruneOpts.olderThan)
	if err != nil {
		return err
	}

	store, err := openHistoryForCommand()
	if err != nil {
		return err
	}
	defer store.Close()

	removed, err := store.Prune(age, pruneOpts.keep)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d translation(s)\n", removed)
	return nil
}
