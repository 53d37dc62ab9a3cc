package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davetashner/tally/internal/config"
	"github.com/davetashner/tally/internal/llm"
)

// withWorkdir runs the test in a fresh working directory with an empty
// global config.
func withWorkdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	resetAskFlags()
	resetConfigFlags()
	verbose, quiet, noColor, configPath = false, false, true, ""
	usageJSON, historyJSON = false, false
	return dir
}

// withMockProvider replaces newProvider with one returning a mock.
func withMockProvider(t *testing.T, responses ...llm.MockResponse) *llm.MockProvider {
	t.Helper()
	mock := llm.NewMockProvider(responses...)
	orig := newProvider
	newProvider = func(*config.Config) (llm.Provider, error) { return mock, nil }
	t.Cleanup(func() { newProvider = orig })
	return mock
}

// run executes the root command with args and stdin, returning stdout and
// stderr.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// exitCode returns the exit code main would use for err.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ece *exitCodeError
	if errors.As(err, &ece) {
		return ece.code
	}
	return ExitOther
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}
