package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wltrans/internal/wayland"
)

var probeOpts struct {
	json bool
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Report monitor size and pointer position",
	Long: `Map a transparent full-screen overlay, wait for the pointer to move over
it, and print the monitor size and pointer position.

Output is "width height x y" unless --json is given.`,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().BoolVar(&probeOpts.json, "json", false, "Output as JSON")
}

func runProbe(cmd *cobra.Command, args []string) error {
	env, err := wayland.CollectEnvInfo(probeOptions())
	if err != nil {
		return fmt.Errorf("display probe: %w", err)
	}

	out := cmd.OutOrStdout()
	if probeOpts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(env)
	}
	_, err = fmt.Fprintf(out, "%d %d %d %d\n", env.MonitorWidth, env.MonitorHeight, env.PointerX, env.PointerY)
	return err
}
