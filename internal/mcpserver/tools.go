package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davetashner/tally/internal/query"
	"github.com/davetashner/tally/internal/redact"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Phrase string  `json:"phrase" jsonschema:"The question or search phrase to send to the model"`
	Model  string  `json:"model,omitempty" jsonschema:"Model to use (defaults to the configured model)"`
	System *string `json:"system,omitempty" jsonschema:"System instruction; an empty string sends none (defaults to the configured prompt)"`
}

// UsageInput is the input schema for the usage tool.
type UsageInput struct{}

// LastInput is the input schema for the last tool.
type LastInput struct{}

// UsageOutput is the result of the usage tool.
type UsageOutput struct {
	TokensTotal    int64 `json:"tokens_total"`
	HistoryEntries int   `json:"history_entries"`
}

type failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

var errNoHistory = errors.New("no exchanges recorded yet")

// boolPtr returns a pointer to a bool.
func boolPtr(b bool) *bool { return &b }

type tools struct {
	engine *query.Engine
}

// registerTools adds all tally tools to the MCP server.
func registerTools(server *mcp.Server, t *tools) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask",
		Description: "Send a phrase to the configured LLM. Adds the query's token cost to the running total and returns the answer with token counts.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    false,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(true),
		},
	}, t.handleAsk)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "usage",
		Description: "Report the running token total and the number of recorded exchanges.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    true,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(false),
		},
	}, t.handleUsage)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "last",
		Description: "Return the most recent exchange as JSON: input phrase, response, and token counts.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    true,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(false),
		},
	}, t.handleLast)
}

func (t *tools) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, any, error) {
	res, err := t.engine.Run(ctx, query.Input{
		Phrase: input.Phrase,
		Model:  input.Model,
		System: input.System,
	})
	if err != nil {
		slog.Debug("mcp ask failed", "kind", query.KindOf(err).String(), "error", err)
		return errorResult(err), nil, nil
	}
	return jsonResult(res)
}

func (t *tools) handleUsage(_ context.Context, _ *mcp.CallToolRequest, _ UsageInput) (*mcp.CallToolResult, any, error) {
	out := UsageOutput{TokensTotal: t.engine.Ledger().Load()}
	if h := t.engine.History(); h != nil {
		out.HistoryEntries = len(h.Load())
	}
	return jsonResult(out)
}

func (t *tools) handleLast(_ context.Context, _ *mcp.CallToolRequest, _ LastInput) (*mcp.CallToolResult, any, error) {
	h := t.engine.History()
	if h == nil {
		return errorResult(errNoHistory), nil, nil
	}
	last, ok := h.Last()
	if !ok {
		return errorResult(errNoHistory), nil, nil
	}
	return jsonResult(last.Final())
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}

// errorResult reports err to the client as a tool error rather than a
// protocol error, so the calling agent can read the message.
func errorResult(err error) *mcp.CallToolResult {
	data, _ := json.Marshal(failure{Success: false, Error: redact.String(err.Error())})
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}
}
