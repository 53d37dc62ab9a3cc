package config

// Merge layers override on top of base and returns a new Config.
// Non-zero override fields win; zero-value fields fall through to base.
// Callers layer global, repo, and CLI values in that order.
func Merge(base, override *Config) *Config {
	if base == nil {
		base = &Config{}
	}
	result := *base
	if override == nil {
		return &result
	}

	if override.Provider != "" {
		result.Provider = override.Provider
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	if len(override.Models) > 0 {
		result.Models = append([]string(nil), override.Models...)
	}
	if override.SystemPrompt != "" {
		result.SystemPrompt = override.SystemPrompt
	}
	if override.LedgerFile != "" {
		result.LedgerFile = override.LedgerFile
	}
	if override.HistoryFile != "" {
		result.HistoryFile = override.HistoryFile
	}
	// RecordHistory is a pointer so an explicit false can override true.
	if override.RecordHistory != nil {
		v := *override.RecordHistory
		result.RecordHistory = &v
	}
	if override.MaxTokens != 0 {
		result.MaxTokens = override.MaxTokens
	}
	if override.Timeout != "" {
		result.Timeout = override.Timeout
	}
	if override.Addr != "" {
		result.Addr = override.Addr
	}
	if override.SecretsFile != "" {
		result.SecretsFile = override.SecretsFile
	}
	if override.Theme != "" {
		result.Theme = override.Theme
	}

	return &result
}
