package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Validate checks all fields in the config and returns all errors at once.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Provider != "" && !slices.Contains(Providers, cfg.Provider) {
		errs = append(errs, fmt.Sprintf("provider: invalid value %q (must be %s)", cfg.Provider, strings.Join(Providers, " or ")))
	}

	for i, m := range cfg.Models {
		if strings.TrimSpace(m) == "" {
			errs = append(errs, fmt.Sprintf("models[%d]: must not be empty", i))
		}
	}

	if cfg.MaxTokens < 0 {
		errs = append(errs, fmt.Sprintf("max_tokens: must be non-negative, got %d", cfg.MaxTokens))
	}

	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		switch {
		case err != nil:
			errs = append(errs, fmt.Sprintf("timeout: %v", err))
		case d < 0:
			errs = append(errs, fmt.Sprintf("timeout: must be non-negative, got %s", cfg.Timeout))
		}
	}

	if cfg.Theme != "" && !slices.Contains(Themes, cfg.Theme) {
		errs = append(errs, fmt.Sprintf("theme: invalid value %q (must be %s)", cfg.Theme, strings.Join(Themes, " or ")))
	}

	if cfg.LedgerFile != "" && cfg.LedgerFile == cfg.HistoryFile {
		errs = append(errs, "ledger_file: must differ from history_file")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
