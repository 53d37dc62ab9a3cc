// Copyright 2026 The Tally Authors
// SPDX-License-Identifier: MIT

// Package redact provides utilities to strip sensitive values from strings
// before they appear in output, logs, or error messages.
package redact

import (
	"os"
	"strings"
	"sync"
)

// sensitiveEnvVars lists environment variable names whose values must never
// appear in output. Add new entries here as providers are added.
var sensitiveEnvVars = []string{
	"OPENAI_API_KEY",
	"ANTHROPIC_API_KEY",
	"TALLY_TOKEN",
}

// minSecretLen guards against false-positive redaction of short values.
const minSecretLen = 4

var (
	mu            sync.RWMutex
	cachedSecrets []string
	registered    []string
	cacheOnce     sync.Once
)

func loadSecrets() {
	for _, envVar := range sensitiveEnvVars {
		val := os.Getenv(envVar)
		if len(val) >= minSecretLen {
			cachedSecrets = append(cachedSecrets, val)
		}
	}
}

// Register adds a secret that did not come from the environment, such as an
// API key read from the secrets file. Short values are ignored.
func Register(secret string) {
	if len(secret) < minSecretLen {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	for _, s := range registered {
		if s == secret {
			return
		}
	}
	registered = append(registered, secret)
}

// resetCache resets the cached and registered secrets. Used by tests that
// change env vars between calls.
func resetCache() {
	mu.Lock()
	defer mu.Unlock()
	cachedSecrets = nil
	registered = nil
	cacheOnce = sync.Once{}
}

// ResetForTest resets the cached secrets so tests in other packages can
// verify redaction behavior after setting env vars with t.Setenv.
func ResetForTest() { resetCache() }

// String replaces any occurrence of a known secret with "[REDACTED]".
// Returns the original string if no secrets are found. Environment values
// are cached on first call.
func String(s string) string {
	mu.RLock()
	defer mu.RUnlock()
	cacheOnce.Do(loadSecrets)
	for _, secret := range cachedSecrets {
		s = strings.ReplaceAll(s, secret, "[REDACTED]")
	}
	for _, secret := range registered {
		s = strings.ReplaceAll(s, secret, "[REDACTED]")
	}
	return s
}
