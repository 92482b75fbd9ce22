package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wltrans/internal/input"
	"github.com/jmylchreest/wltrans/internal/notify"
)

var translateOpts struct {
	notify bool
}

var translateCmd = &cobra.Command{
	Use:   "translate [text...]",
	Short: "Translate text and print the result",
	Long: `Translate text without opening the popup and print the result to stdout.

Text comes from the arguments, --src-text, or standard input, in that order.

Examples:
  wltrans translate -f de "Guten Morgen"
  wl-paste | wltrans translate -t fr --notify`,
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().BoolVar(&translateOpts.notify, "notify", false,
		"Also show the result as a desktop notification")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	flagText := globalOpts.srcText
	if len(args) > 0 {
		flagText = strings.Join(args, " ")
	}
	text, err := input.Resolve(flagText, input.NewStdinSourceWithReader(cmd.InOrStdin()))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := newTranslator().Translate(ctx, cfg.Translate.From, cfg.Translate.To, text)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), result)

	if store, err := openHistory(); err != nil {
		logger.Warn("history disabled", "error", err)
	} else if store != nil {
		if result != "" {
			if _, err := store.Add(cfg.Translate.From, cfg.Translate.To, text, result); err != nil {
				logger.Warn("failed to record translation", "error", err)
			}
		}
		_ = store.Close()
	}

	if translateOpts.notify {
		return sendNotification(ctx, result)
	}
	return nil
}

func sendNotification(ctx context.Context, body string) error {
	n, err := notify.New(notify.Options{
		AppName: cfg.Notify.AppName,
		Icon:    "accessories-dictionary",
		Timeout: cfg.Notify.Timeout.Duration(),
		Urgency: notify.UrgencyNormal,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	defer n.Close()

	summary := fmt.Sprintf("%s → %s", cfg.Translate.From, cfg.Translate.To)
	_, err = n.Send(ctx, summary, body)
	return err
}
