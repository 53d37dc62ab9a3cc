// Package ledger persists the running token-usage total.
//
// The ledger is a single JSON document of the form {"tokens_total": N}. It is
// read and rewritten whole on every update; there is no append log and no
// cross-process locking, so the last writer wins.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/davetashner/tally/internal/testable"
)

// DefaultFile is the ledger filename used when none is configured.
const DefaultFile = "token_log.json"

// FS is the file system implementation used by this package.
// Override in tests with a testable.MockFileSystem.
var FS testable.FileSystem = testable.DefaultFS

// ErrNegative is returned when a caller tries to store or add a negative
// token count.
var ErrNegative = errors.New("ledger: token count must be non-negative")

// document is the on-disk schema. TokensTotal is a json.Number so that
// integral floats written by other tools (e.g. 12.0) still load.
type document struct {
	TokensTotal *json.Number `json:"tokens_total"`
}

// Ledger is a file-backed running token total.
type Ledger struct {
	path string
}

// New returns a ledger stored at path. If path is empty, DefaultFile in the
// working directory is used.
func New(path string) *Ledger {
	if path == "" {
		path = DefaultFile
	}
	return &Ledger{path: path}
}

// Path returns the file the ledger is stored in.
func (l *Ledger) Path() string {
	return l.path
}

// Load returns the persisted total. It never fails: a missing, unreadable or
// malformed document, a missing key, or a value that is not a non-negative
// number all load as 0.
func (l *Ledger) Load() int64 {
	data, err := FS.ReadFile(l.path)
	if err != nil {
		return 0
	}
	return decode(data)
}

// Save overwrites the ledger with total. Write failures are returned.
func (l *Ledger) Save(total int64) error {
	if total < 0 {
		return ErrNegative
	}

	data, err := json.Marshal(map[string]int64{"tokens_total": total})
	if err != nil {
		return err
	}

	if dir := filepath.Dir(l.path); dir != "." {
		if err := FS.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("ledger: create directory: %w", err)
		}
	}
	if err := FS.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("ledger: write %s: %w", l.path, err)
	}
	return nil
}

// Add loads the current total, adds delta and saves the result.
// It returns the new total.
func (l *Ledger) Add(delta int64) (int64, error) {
	if delta < 0 {
		return 0, ErrNegative
	}
	total := l.Load() + delta
	if err := l.Save(total); err != nil {
		return 0, err
	}
	return total, nil
}

// Reset sets the total back to zero.
func (l *Ledger) Reset() error {
	return l.Save(0)
}

// decode parses a ledger document, falling back to 0 on any schema mismatch.
func decode(data []byte) int64 {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0
	}
	if doc.TokensTotal == nil {
		return 0
	}

	if n, err := doc.TokensTotal.Int64(); err == nil {
		return max(n, 0)
	}
	f, err := doc.TokensTotal.Float64()
	if err != nil || f < 0 || math.IsInf(f, 0) || f >= math.MaxInt64 {
		return 0
	}
	return int64(f)
}
