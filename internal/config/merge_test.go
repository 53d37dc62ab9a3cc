// Copyright 2026 The Tally Authors
// SPDX-License-Identifier: MIT

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestMerge_OverrideWins(t *testing.T) {
	base := &Config{
		Provider:     "openai",
		Model:        "gpt-4o-mini",
		Models:       []string{"gpt-4o-mini"},
		SystemPrompt: "base",
		MaxTokens:    100,
		Timeout:      "10s",
		Theme:        "dark",
	}
	override := &Config{
		Provider:     "anthropic",
		Model:        "claude-haiku-4-5",
		Models:       []string{"claude-haiku-4-5"},
		SystemPrompt: "override",
		MaxTokens:    200,
		Timeout:      "20s",
		Theme:        "light",
		LedgerFile:   "l.json",
		HistoryFile:  "h.json",
		Addr:         ":1",
		SecretsFile:  "s.toml",
	}

	got := Merge(base, override)
	assert.Equal(t, *override, *got)
}

func TestMerge_ZeroFallsThrough(t *testing.T) {
	base := &Config{Model: "gpt-4o", MaxTokens: 50, RecordHistory: boolPtr(true)}

	got := Merge(base, &Config{})
	assert.Equal(t, "gpt-4o", got.Model)
	assert.Equal(t, 50, got.MaxTokens)
	require.NotNil(t, got.RecordHistory)
	assert.True(t, *got.RecordHistory)
}

func TestMerge_ExplicitFalseOverridesTrue(t *testing.T) {
	got := Merge(&Config{RecordHistory: boolPtr(true)}, &Config{RecordHistory: boolPtr(false)})
	require.NotNil(t, got.RecordHistory)
	assert.False(t, *got.RecordHistory)
}

func TestMerge_NilInputs(t *testing.T) {
	assert.Equal(t, &Config{}, Merge(nil, nil))
	assert.Equal(t, "x", Merge(nil, &Config{Model: "x"}).Model)
	assert.Equal(t, "y", Merge(&Config{Model: "y"}, nil).Model)
}

func TestMerge_DoesNotAlias(t *testing.T) {
	override := &Config{Models: []string{"a"}, RecordHistory: boolPtr(true)}
	got := Merge(&Config{}, override)

	got.Models[0] = "changed"
	*got.RecordHistory = false
	assert.Equal(t, "a", override.Models[0])
	assert.True(t, *override.RecordHistory)
}
