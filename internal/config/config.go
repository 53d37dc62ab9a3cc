// Package config handles .tally.yaml configuration files.
package config

import (
	"slices"
	"time"

	"github.com/davetashner/tally/internal/history"
	"github.com/davetashner/tally/internal/ledger"
	"github.com/davetashner/tally/internal/llm"
)

// Config represents the contents of a .tally.yaml file.
type Config struct {
	Provider      string   `yaml:"provider,omitempty"`
	Model         string   `yaml:"model,omitempty"`
	Models        []string `yaml:"models,omitempty"`
	SystemPrompt  string   `yaml:"system_prompt,omitempty"`
	LedgerFile    string   `yaml:"ledger_file,omitempty"`
	HistoryFile   string   `yaml:"history_file,omitempty"`
	RecordHistory *bool    `yaml:"record_history,omitempty"`
	MaxTokens     int      `yaml:"max_tokens,omitempty"`
	Timeout       string   `yaml:"timeout,omitempty"`
	Addr          string   `yaml:"addr,omitempty"`
	SecretsFile   string   `yaml:"secrets_file,omitempty"`
	Theme         string   `yaml:"theme,omitempty"`
}

// FileName is the expected config file name in the working directory.
const FileName = ".tally.yaml"

// Defaults used when neither a config file nor a flag sets a value.
const (
	DefaultSystemPrompt = "You are concise and helpful."
	DefaultAddr         = "127.0.0.1:8501"
	DefaultSecretsFile  = ".tally/secrets.toml"
	DefaultTheme        = "dark"
)

// DefaultModels is the model list offered by the web UI.
var DefaultModels = []string{"gpt-4o-mini", "gpt-4o", "gpt-3.5-turbo"}

// Themes lists the accepted values for theme.
var Themes = []string{"dark", "light"}

// Providers lists the accepted values for provider.
var Providers = []string{llm.ProviderOpenAI, llm.ProviderAnthropic}

// WithDefaults returns a copy of cfg with every unset field filled in.
func (c *Config) WithDefaults() *Config {
	out := *c
	if out.Provider == "" {
		out.Provider = llm.ProviderOpenAI
	}
	if out.Model == "" {
		out.Model = llm.DefaultModel(out.Provider)
	}
	if len(out.Models) == 0 {
		if out.Provider == llm.ProviderOpenAI {
			out.Models = append([]string(nil), DefaultModels...)
		} else {
			out.Models = []string{out.Model}
		}
	}
	if !slices.Contains(out.Models, out.Model) {
		out.Models = append([]string{out.Model}, out.Models...)
	}
	if out.SystemPrompt == "" {
		out.SystemPrompt = DefaultSystemPrompt
	}
	if out.LedgerFile == "" {
		out.LedgerFile = ledger.DefaultFile
	}
	if out.HistoryFile == "" {
		out.HistoryFile = history.DefaultFile
	}
	if out.Addr == "" {
		out.Addr = DefaultAddr
	}
	if out.SecretsFile == "" {
		out.SecretsFile = DefaultSecretsFile
	}
	if out.Theme == "" {
		out.Theme = DefaultTheme
	}
	return &out
}

// Recording reports whether the CLI should append successful queries to the
// history log.
func (c *Config) Recording() bool {
	return c.RecordHistory != nil && *c.RecordHistory
}

// TimeoutDuration parses Timeout. An empty or invalid value means no timeout;
// Validate reports invalid values.
func (c *Config) TimeoutDuration() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}
