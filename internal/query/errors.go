package query

import (
	"errors"

	"github.com/davetashner/tally/internal/llm"
)

// Kind classifies a query failure.
type Kind int

const (
	// KindUnknown is any failure not covered by another kind.
	KindUnknown Kind = iota
	// KindConfig is a configuration problem such as a missing credential.
	// It is terminal: retrying will not help.
	KindConfig
	// KindInput is an empty or whitespace-only phrase.
	KindInput
	// KindRemote is an error returned by the hosted completion service.
	KindRemote
	// KindStorage is a failure to persist the ledger or history.
	KindStorage
)

// String returns a short lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindInput:
		return "input"
	case KindRemote:
		return "remote"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// ErrEmptyInput is returned when the phrase is empty after trimming.
var ErrEmptyInput = errors.New("no input provided")

var errNoHistory = errors.New("history is not recorded")

// Error is a classified query failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// KindOf classifies err. Errors that were not produced by the engine are
// classified by inspection: missing credentials are KindConfig and remote
// service failures are KindRemote.
func KindOf(err error) Kind {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Kind
	}
	switch {
	case errors.Is(err, llm.ErrMissingCredential):
		return KindConfig
	case errors.Is(err, ErrEmptyInput):
		return KindInput
	case llm.IsRemote(err):
		return KindRemote
	default:
		return KindUnknown
	}
}

func classify(err error) *Error {
	return &Error{Kind: KindOf(err), Err: err}
}
