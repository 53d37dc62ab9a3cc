// Package llm provides a provider-agnostic LLM client interface and
// implementations for the hosted completion endpoints tally talks to.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Provider abstracts an LLM API behind a single synchronous completion method.
type Provider interface {
	// Complete sends a prompt to the LLM and returns the response.
	// Implementations must respect context cancellation and deadlines.
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Request describes a single completion request.
type Request struct {
	// Prompt is the user message to send.
	Prompt string

	// Model overrides the provider's default model. If empty, the provider
	// uses its configured default.
	Model string

	// MaxTokens limits the response length. If zero, the provider uses its
	// own default.
	MaxTokens int

	// Temperature controls randomness. If nil, the provider uses its default.
	Temperature *float64

	// SystemPrompt sets the system instruction for the completion.
	SystemPrompt string
}

// Response holds the result of a completion call.
type Response struct {
	// Content is the text returned by the model.
	Content string

	// Model is the model that actually served the request (may differ from
	// the requested model if the provider remapped it).
	Model string

	// Usage reports token consumption.
	Usage Usage
}

// Usage tracks token counts for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int

	// TotalTokens is the provider-reported total. Zero means the provider
	// did not report one.
	TotalTokens int
}

// Total returns the token cost of the request: the reported total when
// present, otherwise input plus output. Negative counts are treated as zero.
func (u Usage) Total() int64 {
	total := u.TotalTokens
	if total <= 0 {
		total = max(u.InputTokens, 0) + max(u.OutputTokens, 0)
	}
	return int64(max(total, 0))
}

// ErrMissingCredential is returned by provider constructors when no API key
// is available from options or the environment.
var ErrMissingCredential = errors.New("llm: missing API key")

// RemoteError reports a failure returned by the hosted completion service
// itself (HTTP error status, rate limit, invalid request), as opposed to a
// local or transport failure.
type RemoteError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: remote error (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: remote error: %v", e.Provider, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// IsRemote reports whether err originated from the remote service.
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}

// Provider names accepted by New.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// New constructs the named provider. An empty name selects OpenAI.
func New(name string, opts ...Option) (Provider, error) {
	var (
		p   Provider
		err error
	)
	switch name {
	case "", ProviderOpenAI:
		p, err = NewOpenAIProvider(opts...)
	case ProviderAnthropic:
		p, err = NewAnthropicProvider(opts...)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q (must be %s or %s)", name, ProviderOpenAI, ProviderAnthropic)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DefaultModel returns the model the named provider uses when none is
// configured.
func DefaultModel(name string) string {
	if name == ProviderAnthropic {
		return defaultAnthropicModel
	}
	return defaultOpenAIModel
}

// EnvKey returns the environment variable holding the API key for the named
// provider.
func EnvKey(name string) string {
	if name == ProviderAnthropic {
		return "ANTHROPIC_API_KEY"
	}
	return "OPENAI_API_KEY"
}
