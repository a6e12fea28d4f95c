package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"flarepie/internal/logging"
	"flarepie/internal/sim"
)

var (
	replayInput     string
	replaySpeed     float64
	replayPrintOnly bool
	replayOutput    string
	replayRunID     string
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a burn sample log file",
	Long:  "replay feeds sample rows from a JSONL log, and the run summaries from its .summary companion, back into GreptimeDB or STDOUT, paced by simulated time.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		writer, cleanup, err := newWriters(nil, replayOutput, replayPrintOnly, "", userSettings.String("greptime.database"))
		if err != nil {
			return err
		}
		defer cleanup()
		stats, err := sim.ReplayLogFile(cmd.Context(), replayInput, writer, sim.ReplayOptions{
			Speed: replaySpeed,
			RunID: replayRunID,
		})
		if err != nil {
			return err
		}
		logging.FromContext(cmd.Context()).Info("replay finished", "runs", stats.Runs, "samples", stats.Samples, "summaries", stats.Summaries)
		return nil
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to sample log file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier (0 disables pacing)")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print samples to STDOUT instead of writing to DB")
	replayCmd.Flags().StringVar(&replayRunID, "run", "", "Replay only this run id")
	replayCmd.Flags().StringVar(&replayOutput, "output", formatJSON, "Output format: auto, json, color, csv")
	replayCmd.MarkFlagRequired("input")
}
