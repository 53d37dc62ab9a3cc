// Copyright 2026 The Tally Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/davetashner/tally/internal/llm"
	"github.com/davetashner/tally/internal/mcpserver"
)

var mcpEngine engineFlags

// mcpCmd is the parent command for MCP-related subcommands.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server commands",
	Long:  "Commands for running tally as an MCP server, exposing metered queries to AI agents.",
}

// mcpServeCmd runs the MCP server over stdio.
var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Start an MCP server on stdin/stdout, exposing tally's tools:
  - ask:   Send a phrase to the model and add its cost to the ledger
  - usage: Report the running token total
  - last:  Return the most recent recorded exchange

Exchanges are recorded in the history log when record_history is true.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(mcpEngine.overrides(cmd.Flags()))
		if err != nil {
			return exitError(ExitOther, "%v", err)
		}
		provider, err := newProvider(cfg)
		if err != nil {
			if errors.Is(err, llm.ErrMissingCredential) {
				return exitError(ExitMissingCredential, "%s not set", llm.EnvKey(cfg.Provider))
			}
			return exitError(ExitOther, "%v", err)
		}
		engine := newEngine(cfg, provider, cfg.Recording())
		return mcpserver.Run(cmd.Context(), engine, Version, &mcp.StdioTransport{})
	},
}

func init() {
	mcpEngine.register(mcpServeCmd.Flags())
	mcpCmd.AddCommand(mcpServeCmd)
}
