package main

import (
	"github.com/spf13/cobra"

	tallylog "github.com/davetashner/tally/internal/log"
	"github.com/davetashner/tally/internal/render"
)

// Global flag values.
var (
	verbose    bool
	quiet      bool
	noColor    bool
	configPath string
)

// rootCmd is the base command for tally.
var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "Ask an LLM and keep a running token total",
	Long: `Tally sends a phrase to a hosted LLM, prints the answer as JSON, and keeps
a running total of the tokens spent across invocations in a local ledger.
It can also record each exchange in a history log and serve a small chat UI.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		tallylog.Setup(verbose, quiet)
		render.SetColor(!noColor)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default .tally.yaml in the working directory)")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
