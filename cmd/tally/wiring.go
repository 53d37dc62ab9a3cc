package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/davetashner/tally/internal/config"
	"github.com/davetashner/tally/internal/history"
	"github.com/davetashner/tally/internal/ledger"
	"github.com/davetashner/tally/internal/llm"
	"github.com/davetashner/tally/internal/query"
	"github.com/davetashner/tally/internal/secrets"
)

// engineFlags are the query settings shared by ask, serve, and mcp serve.
type engineFlags struct {
	provider string
	model    string
	system   string
}

func (f *engineFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.provider, "provider", "", "completion provider: openai or anthropic")
	fs.StringVar(&f.model, "model", "", "model to use")
	fs.StringVar(&f.system, "system", "", "system instruction sent with every query")
}

func (f *engineFlags) reset(fs *pflag.FlagSet) {
	*f = engineFlags{}
	for _, name := range []string{"provider", "model", "system"} {
		if fl := fs.Lookup(name); fl != nil {
			_ = fl.Value.Set("")
			fl.Changed = false
		}
	}
}

// overrides returns the flags as a config layer. Only flags the user set
// take part.
func (f *engineFlags) overrides(fs *pflag.FlagSet) *config.Config {
	cfg := &config.Config{}
	if fs.Changed("provider") {
		cfg.Provider = f.provider
	}
	if fs.Changed("model") {
		cfg.Model = f.model
	}
	if fs.Changed("system") {
		cfg.SystemPrompt = f.system
	}
	return cfg
}

// loadConfig resolves global, repo, and flag settings, validates the result,
// and fills in defaults.
func loadConfig(overrides *config.Config) (*config.Config, error) {
	cfg, err := config.Resolve(".", configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg = config.Merge(cfg, overrides)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg.WithDefaults(), nil
}

// newProvider builds the completion provider for cfg. Tests replace it.
var newProvider = func(cfg *config.Config) (llm.Provider, error) {
	store := secrets.New(cfg.SecretsFile)
	envKey := llm.EnvKey(cfg.Provider)
	key, src := store.Lookup(envKey)
	slog.Debug("credential lookup", "name", envKey, "source", src.String())

	opts := []llm.Option{llm.WithModel(cfg.Model)}
	if key != "" {
		opts = append(opts, llm.WithAPIKey(key))
	}
	return llm.New(cfg.Provider, opts...)
}

// newEngine wires the ledger, optional history, and provider into an engine.
// provider may be nil for commands that never query.
func newEngine(cfg *config.Config, provider llm.Provider, record bool) *query.Engine {
	opts := []query.Option{
		query.WithModel(cfg.Model),
		query.WithSystemPrompt(cfg.SystemPrompt),
		query.WithMaxTokens(cfg.MaxTokens),
		query.WithTimeout(cfg.TimeoutDuration()),
	}
	if record {
		opts = append(opts, query.WithHistory(history.New(cfg.HistoryFile)))
	}
	return query.New(provider, ledger.New(cfg.LedgerFile), opts...)
}
