// Copyright 2026 The Tally Authors
// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Empty(t, cfg.Model)
	assert.Nil(t, cfg.Models)
}

func TestLoad_ValidFile(t *testing.T) {
	dir := t.TempDir()
	content := `
provider: openai
model: gpt-4o
models:
  - gpt-4o
  - gpt-4o-mini
max_tokens: 256
timeout: 45s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, []string{"gpt-4o", "gpt-4o-mini"}, cfg.Models)
	assert.Equal(t, 256, cfg.MaxTokens)
	assert.Equal(t, "45s", cfg.Timeout)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("{{invalid yaml"), 0o600))

	cfg, err := Load(dir)
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), FileName)
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(""), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoad_Unreadable(t *testing.T) {
	dir := t.TempDir()
	// A directory where the file should be makes ReadFile fail with
	// something other than ErrNotExist.
	require.NoError(t, os.Mkdir(filepath.Join(dir, FileName), 0o750))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoadFile_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: light\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.Theme)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, &Config{Model: "gpt-4o", Models: []string{"a", "b"}}))

	assert.Equal(t, "model: gpt-4o\nmodels:\n  - a\n  - b\n", buf.String())
}

func TestRawRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	m, err := LoadRaw(path)
	require.NoError(t, err)
	assert.Empty(t, m)

	m["model"] = "gpt-4o"
	m["custom_note"] = "kept"
	require.NoError(t, WriteRaw(path, m))

	again, err := LoadRaw(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", again["model"])
	assert.Equal(t, "kept", again["custom_note"])

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", cfg.Model)
}

func TestLoadRaw_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("[unclosed"), 0o600))

	_, err := LoadRaw(path)
	assert.Error(t, err)
}
