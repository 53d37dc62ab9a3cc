// Package query runs a single phrase through a completion provider and
// records its token cost in the ledger and, optionally, the chat history.
package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/davetashner/tally/internal/history"
	"github.com/davetashner/tally/internal/ledger"
	"github.com/davetashner/tally/internal/llm"
)

// Engine holds everything a query needs for the lifetime of the process:
// one provider handle, the ledger, and an optional history log.
type Engine struct {
	provider llm.Provider

	// mu guards read-modify-write cycles on the ledger and history. The
	// remote call runs outside it.
	mu      sync.Mutex
	ledger  *ledger.Ledger
	history *history.Log

	model     string
	system    string
	maxTokens int
	timeout   time.Duration
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithHistory records every successful query in h.
func WithHistory(h *history.Log) Option {
	return func(e *Engine) { e.history = h }
}

// WithModel sets the model used when a query does not name one.
func WithModel(model string) Option {
	return func(e *Engine) { e.model = model }
}

// WithSystemPrompt sets the system instruction used when a query does not
// carry one.
func WithSystemPrompt(system string) Option {
	return func(e *Engine) { e.system = system }
}

// WithMaxTokens limits response length for every query.
func WithMaxTokens(n int) Option {
	return func(e *Engine) { e.maxTokens = n }
}

// WithTimeout bounds each remote call. Zero means no engine-level timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithClock overrides the clock used for exchange timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine. The ledger is required; history is recorded only
// when WithHistory is given.
func New(provider llm.Provider, l *ledger.Ledger, opts ...Option) *Engine {
	e := &Engine{
		provider: provider,
		ledger:   l,
		now:      time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Ledger returns the engine's ledger.
func (e *Engine) Ledger() *ledger.Ledger { return e.ledger }

// History returns the engine's history log, or nil when history is not
// recorded.
func (e *Engine) History() *history.Log { return e.history }

// Model returns the default model.
func (e *Engine) Model() string { return e.model }

// SystemPrompt returns the default system instruction.
func (e *Engine) SystemPrompt() string { return e.system }

// Input is one query request.
type Input struct {
	Phrase string

	// Model overrides the engine default when non-empty.
	Model string

	// System overrides the engine default when non-nil. A pointer to an
	// empty string sends no system instruction.
	System *string
}

// Result is the outcome of a recorded query.
type Result struct {
	InputPhrase     string  `json:"input_phrase"`
	AIResponse      string  `json:"ai_response"`
	Model           string  `json:"model,omitempty"`
	TokensThisQuery int64   `json:"tokens_this_query"`
	TokensTotal     int64   `json:"tokens_total"`
	Timestamp       float64 `json:"timestamp,omitempty"`
}

// Exchange converts r into a history entry.
func (r *Result) Exchange() history.Exchange {
	return history.Exchange{
		Timestamp:       r.Timestamp,
		InputPhrase:     r.InputPhrase,
		AIResponse:      r.AIResponse,
		Model:           r.Model,
		TokensThisQuery: r.TokensThisQuery,
		TokensTotal:     r.TokensTotal,
	}
}

// Answer is the outcome of an unrecorded query.
type Answer struct {
	InputPhrase string `json:"input_phrase"`
	AIResponse  string `json:"ai_response"`
	TokensUsed  int64  `json:"tokens_used"`
}

// Run sends the phrase to the provider and records its cost. A query either
// updates the ledger (and history, when configured) or leaves both untouched.
// Every returned error is a *Error.
func (e *Engine) Run(ctx context.Context, in Input) (*Result, error) {
	phrase, req, err := e.prepare(in)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	resp, err := e.complete(ctx, id, req)
	if err != nil {
		return nil, err
	}

	cost := resp.Usage.Total()

	e.mu.Lock()
	defer e.mu.Unlock()

	previous := e.ledger.Load()
	total := previous + cost
	if err := e.ledger.Save(total); err != nil {
		return nil, &Error{Kind: KindStorage, Err: err}
	}

	model := req.Model
	if model == "" {
		model = resp.Model
	}

	result := &Result{
		InputPhrase:     phrase,
		AIResponse:      resp.Content,
		Model:           model,
		TokensThisQuery: cost,
		TokensTotal:     total,
		Timestamp:       history.Timestamp(e.now()),
	}

	if e.history != nil {
		if err := e.history.Append(result.Exchange()); err != nil {
			if rerr := e.ledger.Save(previous); rerr != nil {
				err = errors.Join(err, fmt.Errorf("restore ledger: %w", rerr))
			}
			return nil, &Error{Kind: KindStorage, Err: err}
		}
	}

	slog.Debug("query recorded",
		"query_id", id,
		"model", model,
		"tokens_this_query", cost,
		"tokens_total", total,
	)
	return result, nil
}

// Ask sends the phrase to the provider without touching the ledger or
// history.
func (e *Engine) Ask(ctx context.Context, in Input) (*Answer, error) {
	phrase, req, err := e.prepare(in)
	if err != nil {
		return nil, err
	}

	resp, err := e.complete(ctx, uuid.NewString(), req)
	if err != nil {
		return nil, err
	}

	return &Answer{
		InputPhrase: phrase,
		AIResponse:  resp.Content,
		TokensUsed:  resp.Usage.Total(),
	}, nil
}

// Reset zeroes the ledger. History is left as is, so existing entries keep
// the running total they were recorded with.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ledger.Reset(); err != nil {
		return &Error{Kind: KindStorage, Err: err}
	}
	slog.Info("token ledger reset", "path", e.ledger.Path())
	return nil
}

// ClearHistory removes every recorded exchange. The ledger is left as is.
func (e *Engine) ClearHistory() error {
	if e.history == nil {
		return &Error{Kind: KindConfig, Err: errNoHistory}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.history.Clear(); err != nil {
		return &Error{Kind: KindStorage, Err: err}
	}
	slog.Info("history cleared", "path", e.history.Path())
	return nil
}

// prepare validates the input and builds the provider request. Empty input
// is rejected here, before any remote call.
func (e *Engine) prepare(in Input) (string, llm.Request, error) {
	phrase := strings.TrimSpace(in.Phrase)
	if phrase == "" {
		return "", llm.Request{}, &Error{Kind: KindInput, Err: ErrEmptyInput}
	}

	model := in.Model
	if model == "" {
		model = e.model
	}

	system := e.system
	if in.System != nil {
		system = *in.System
	}

	return phrase, llm.Request{
		Prompt:       phrase,
		Model:        model,
		MaxTokens:    e.maxTokens,
		SystemPrompt: strings.TrimSpace(system),
	}, nil
}

func (e *Engine) complete(ctx context.Context, id string, req llm.Request) (*llm.Response, error) {
	if e.provider == nil {
		return nil, &Error{Kind: KindConfig, Err: fmt.Errorf("%w: no provider configured", llm.ErrMissingCredential)}
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	slog.Debug("sending query", "query_id", id, "model", req.Model)
	resp, err := e.provider.Complete(ctx, req)
	if err != nil {
		qe := classify(err)
		slog.Warn("query failed", "query_id", id, "kind", qe.Kind.String(), "error", err)
		return nil, qe
	}
	return resp, nil
}
