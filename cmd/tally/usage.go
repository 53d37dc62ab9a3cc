package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davetashner/tally/internal/render"
)

var usageJSON bool

// usageCmd prints the running token total.
var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show the running token total",
	Args:  cobra.NoArgs,
	RunE:  runUsage,
}

// usageResetCmd zeroes the ledger.
var usageResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the running token total to zero",
	Long: `Reset the running token total to zero.

History entries are left as they are and keep the totals they were
recorded with.`,
	Args: cobra.NoArgs,
	RunE: runUsageReset,
}

func init() {
	usageCmd.Flags().BoolVar(&usageJSON, "json", false, "print as JSON")
	usageCmd.AddCommand(usageResetCmd)
}

type usageOutput struct {
	TokensTotal    int64 `json:"tokens_total"`
	HistoryEntries int   `json:"history_entries"`
}

func runUsage(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return exitError(ExitOther, "%v", err)
	}
	engine := newEngine(cfg, nil, true)
	out := usageOutput{
		TokensTotal:    engine.Ledger().Load(),
		HistoryEntries: len(engine.History().Load()),
	}

	if usageJSON {
		return writeJSON(cmd.OutOrStdout(), out, true)
	}
	return render.Usage(cmd.OutOrStdout(), out.TokensTotal, out.HistoryEntries)
}

func runUsageReset(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return exitError(ExitOther, "%v", err)
	}
	if err := newEngine(cfg, nil, false).Reset(); err != nil {
		return exitError(ExitOther, "%v", err)
	}
	if !quiet {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Token total reset to 0.")
	}
	return nil
}
