// Copyright 2026 The Tally Authors
// SPDX-License-Identifier: MIT

// Package history persists the chat history as a JSON array of exchanges,
// most recent first.
package history

import (
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/davetashner/tally/internal/testable"
)

// DefaultFile is the history filename used when none is configured.
const DefaultFile = "chat_history.json"

// FS is the file system implementation used by this package.
// Override in tests with a testable.MockFileSystem.
var FS testable.FileSystem = testable.DefaultFS

// Exchange is one recorded request/response pair.
type Exchange struct {
	Timestamp       float64 `json:"timestamp"`
	InputPhrase     string  `json:"input_phrase"`
	AIResponse      string  `json:"ai_response"`
	Model           string  `json:"model"`
	TokensThisQuery int64   `json:"tokens_this_query"`
	TokensTotal     int64   `json:"tokens_total"`
}

// FinalView is the four-field summary of an exchange offered for display
// and download.
type FinalView struct {
	InputPhrase     string `json:"input_phrase"`
	AIResponse      string `json:"ai_response"`
	TokensThisQuery int64  `json:"tokens_this_query"`
	TokensTotal     int64  `json:"tokens_total"`
}

// Final returns the summary view of e.
func (e Exchange) Final() FinalView {
	return FinalView{
		InputPhrase:     e.InputPhrase,
		AIResponse:      e.AIResponse,
		TokensThisQuery: e.TokensThisQuery,
		TokensTotal:     e.TokensTotal,
	}
}

// Time converts the float epoch timestamp to a time.Time.
func (e Exchange) Time() time.Time {
	sec, frac := math.Modf(e.Timestamp)
	return time.Unix(int64(sec), int64(frac*1e9))
}

// Timestamp converts t to the float epoch seconds stored in an Exchange.
func Timestamp(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

// Log is a file-backed history of exchanges.
type Log struct {
	path string
}

// New returns a history log stored at path. If path is empty, DefaultFile in
// the working directory is used.
func New(path string) *Log {
	if path == "" {
		path = DefaultFile
	}
	return &Log{path: path}
}

// Path returns the file the history is stored in.
func (l *Log) Path() string {
	return l.path
}

// Load returns all persisted exchanges, most recent first. A missing or
// malformed file loads as an empty history; Load never fails.
func (l *Log) Load() []Exchange {
	data, err := FS.ReadFile(l.path)
	if err != nil {
		return []Exchange{}
	}

	var entries []Exchange
	if err := json.Unmarshal(data, &entries); err != nil || entries == nil {
		return []Exchange{}
	}
	return entries
}

// Save overwrites the history with entries, which must already be ordered
// most recent first.
func (l *Log) Save(entries []Exchange) error {
	if entries == nil {
		entries = []Exchange{}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(l.path); dir != "." {
		if err := FS.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("history: create directory: %w", err)
		}
	}
	if err := FS.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("history: write %s: %w", l.path, err)
	}
	return nil
}

// Append inserts entry at the front of the persisted history.
func (l *Log) Append(entry Exchange) error {
	entries := l.Load()
	entries = append([]Exchange{entry}, entries...)
	return l.Save(entries)
}

// Clear removes every exchange.
func (l *Log) Clear() error {
	return l.Save(nil)
}

// Last returns the most recent exchange, if any.
func (l *Log) Last() (Exchange, bool) {
	entries := l.Load()
	if len(entries) == 0 {
		return Exchange{}, false
	}
	return entries[0], true
}
