package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/wltrans/internal/tui"
)

var browseOpts struct {
	noWatch bool
}

var historyBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse past translations interactively",
	Long: `Launch the interactive terminal browser for past translations.

Key bindings:
  j/k, ↑/↓    Navigate list
  enter       View the full translation
  c           Copy result to clipboard
  s           Copy source text to clipboard
  C / alt+c   Copy all visible translations as JSON / YAML
  /           Search translations
  d           Delete translation from history
  r           Reload history file
  ?           Show help
  q           Quit`,
	RunE: runHistoryBrowse,
}

func init() {
	historyCmd.AddCommand(historyBrowseCmd)

	historyBrowseCmd.Flags().BoolVar(&browseOpts.noWatch, "no-watch", false,
		"Do not reload when the history file changes")
}

func runHistoryBrowse(cmd *cobra.Command, args []string) error {
	store, err := openHistoryForCommand()
	if err != nil {
		return err
	}
	defer store.Close()

	return tui.Run(tui.RunOptions{
		Store:     store,
		Clipboard: cfg.Clipboard.Command,
		Watch:     !browseOpts.noWatch,
		Logger:    logger,
	})
}
