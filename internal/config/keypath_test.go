package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetValue(t *testing.T) {
	cfg := &Config{Model: "gpt-4o", MaxTokens: 42, RecordHistory: boolPtr(true), Models: []string{"a"}}

	val, err := GetValue(cfg, "model")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", val)

	val, err = GetValue(cfg, "max_tokens")
	require.NoError(t, err)
	assert.Equal(t, 42, val)

	val, err = GetValue(cfg, "record_history")
	require.NoError(t, err)
	assert.Equal(t, true, val)

	val, err = GetValue(cfg, "models")
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, val)
}

func TestGetValue_NotFound(t *testing.T) {
	_, err := GetValue(&Config{}, "model")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSetValue_Coerces(t *testing.T) {
	m := map[string]any{}
	require.NoError(t, SetValue(m, "max_tokens", "300"))
	require.NoError(t, SetValue(m, "record_history", "true"))
	require.NoError(t, SetValue(m, "timeout", "30s"))
	require.NoError(t, SetValue(m, "system_prompt", "42"))
	require.NoError(t, SetValue(m, "models", "gpt-4o, gpt-4o-mini,,"))

	assert.Equal(t, 300, m["max_tokens"])
	assert.Equal(t, true, m["record_history"])
	assert.Equal(t, "30s", m["timeout"])
	assert.Equal(t, "42", m["system_prompt"])
	assert.Equal(t, []any{"gpt-4o", "gpt-4o-mini"}, m["models"])
}

func TestSetValue_UnknownKey(t *testing.T) {
	m := map[string]any{}
	err := SetValue(m, "temperature", "0.2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown key "temperature"`)
	assert.Empty(t, m)
}

func TestValidateKey(t *testing.T) {
	for _, k := range Keys() {
		assert.NoError(t, ValidateKey(k), k)
	}
	assert.Error(t, ValidateKey(""))
	assert.Error(t, ValidateKey("model.name"))
	assert.Error(t, ValidateKey("nope"))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []string{
		"addr", "history_file", "ledger_file", "max_tokens", "model", "models",
		"provider", "record_history", "secrets_file", "system_prompt", "theme", "timeout",
	}, Keys())
}
