package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davetashner/tally/internal/history"
	"github.com/davetashner/tally/internal/render"
)

var historyJSON bool

// historyCmd lists recorded exchanges, newest first.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded exchanges, newest first",
	Long: `List recorded exchanges, newest first.

Exchanges are recorded by the web UI, by the MCP server, and by
"tally ask --record" (or record_history: true in the config).`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

// historyLastCmd prints the latest exchange as the downloadable JSON payload.
var historyLastCmd = &cobra.Command{
	Use:   "last",
	Short: "Print the most recent exchange as JSON",
	Args:  cobra.NoArgs,
	RunE:  runHistoryLast,
}

// historyClearCmd empties the history log.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded exchanges",
	Long:  "Delete all recorded exchanges. The running token total is not changed.",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print the full history as JSON")
	historyCmd.AddCommand(historyLastCmd)
	historyCmd.AddCommand(historyClearCmd)
}

func openHistory() (*history.Log, error) {
	cfg, err := loadConfig(nil)
	if err != nil {
		return nil, exitError(ExitOther, "%v", err)
	}
	return history.New(cfg.HistoryFile), nil
}

func runHistory(cmd *cobra.Command, _ []string) error {
	h, err := openHistory()
	if err != nil {
		return err
	}
	entries := h.Load()
	if historyJSON {
		return writeJSON(cmd.OutOrStdout(), entries, true)
	}
	return render.History(cmd.OutOrStdout(), entries)
}

func runHistoryLast(cmd *cobra.Command, _ []string) error {
	h, err := openHistory()
	if err != nil {
		return err
	}
	last, ok := h.Last()
	if !ok {
		return exitError(ExitOther, "no exchanges recorded yet")
	}
	return writeJSON(cmd.OutOrStdout(), last.Final(), true)
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	h, err := openHistory()
	if err != nil {
		return err
	}
	if err := h.Clear(); err != nil {
		return exitError(ExitOther, "%v", err)
	}
	if !quiet {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
	}
	return nil
}
