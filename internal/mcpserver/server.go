// Copyright 2026 The Tally Authors
// SPDX-License-Identifier: MIT

// Package mcpserver implements an MCP (Model Context Protocol) server that
// exposes tally's query engine as tools over stdio transport.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davetashner/tally/internal/query"
)

// New creates a new MCP server with tally's tools registered against engine.
func New(engine *query.Engine, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "tally",
		Title:   "Tally: token-metered LLM queries",
		Version: version,
	}, nil)

	registerTools(server, &tools{engine: engine})
	return server
}

// Run creates an MCP server and runs it on the given transport.
// It blocks until the client disconnects or the context is cancelled.
func Run(ctx context.Context, engine *query.Engine, version string, transport mcp.Transport) error {
	return New(engine, version).Run(ctx, transport)
}
