package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/davetashner/tally/internal/llm"
	"github.com/davetashner/tally/internal/web"
)

var (
	serveAddr   string
	serveEngine engineFlags
)

// serveCmd runs the browser chat UI.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat UI",
	Long: `Serve the browser chat UI.

Every exchange is recorded in the history log and its token cost added to
the ledger. The server stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default 127.0.0.1:8501)")
	serveEngine.register(serveCmd.Flags())
}

func runServe(cmd *cobra.Command, _ []string) error {
	overrides := serveEngine.overrides(cmd.Flags())
	if cmd.Flags().Changed("addr") {
		overrides.Addr = serveAddr
	}
	cfg, err := loadConfig(overrides)
	if err != nil {
		return exitError(ExitOther, "%v", err)
	}

	provider, err := newProvider(cfg)
	if err != nil {
		if errors.Is(err, llm.ErrMissingCredential) {
			return exitError(ExitMissingCredential, "%s not found. Add it to %s or set the %s environment variable.",
				llm.EnvKey(cfg.Provider), cfg.SecretsFile, llm.EnvKey(cfg.Provider))
		}
		return exitError(ExitOther, "%v", err)
	}

	srv, err := web.New(newEngine(cfg, provider, true),
		web.WithModels(cfg.Models),
		web.WithTheme(cfg.Theme),
	)
	if err != nil {
		return exitError(ExitOther, "%v", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.Run(ctx, cfg.Addr); err != nil {
		return exitError(ExitOther, "%v", err)
	}
	return nil
}
