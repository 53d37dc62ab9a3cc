// Package secrets looks up API credentials, preferring a local TOML secrets
// file over the process environment.
package secrets

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/davetashner/tally/internal/redact"
	"github.com/davetashner/tally/internal/testable"
)

// FS is the file system used to read the secrets file. Tests replace it.
var FS testable.FileSystem = testable.DefaultFS

// Source says where a credential was found.
type Source int

const (
	// SourceNone means the credential was not found.
	SourceNone Source = iota
	// SourceFile means the credential came from the secrets file.
	SourceFile
	// SourceEnv means the credential came from the environment.
	SourceEnv
)

func (s Source) String() string {
	switch s {
	case SourceFile:
		return "file"
	case SourceEnv:
		return "env"
	default:
		return "none"
	}
}

// Store reads credentials from a TOML file of top-level string keys, for
// example:
//
//	OPENAI_API_KEY = "sk-..."
//
// The file is parsed once, on first lookup. A missing or malformed file
// behaves as empty.
type Store struct {
	path string

	once   sync.Once
	values map[string]string
}

// New returns a Store backed by the file at path. An empty path disables the
// file and leaves only the environment.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the secrets file path.
func (s *Store) Path() string { return s.path }

// Lookup returns the value for name from the secrets file, falling back to
// the environment. Found values are registered for redaction.
func (s *Store) Lookup(name string) (string, Source) {
	s.once.Do(s.load)

	if v := strings.TrimSpace(s.values[name]); v != "" {
		redact.Register(v)
		return v, SourceFile
	}
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		redact.Register(v)
		return v, SourceEnv
	}
	return "", SourceNone
}

func (s *Store) load() {
	s.values = make(map[string]string)
	if s.path == "" {
		return
	}

	data, err := FS.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("secrets file unreadable; using environment", "path", s.path, "error", err)
		}
		return
	}

	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		slog.Warn("secrets file malformed; using environment", "path", s.path, "error", err)
		return
	}
	for k, v := range raw {
		if str, ok := v.(string); ok {
			s.values[k] = str
		}
	}
}
