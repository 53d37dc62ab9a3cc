package main

import (
	"fmt"

	"github.com/davetashner/tally/internal/query"
)

// Exit codes for the tally CLI.
const (
	ExitOK                = 0 // Success, or input aborted at the prompt.
	ExitMissingCredential = 1 // No API key for the selected provider.
	ExitEmptyInput        = 2 // Phrase was empty after trimming.
	ExitRemote            = 3 // The completion service returned an error.
	ExitOther             = 4 // Anything else.
)

// exitCodeError carries a non-zero exit code through cobra's error handling.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError. An empty message means the command has
// already reported the failure on stdout.
func exitError(code int, format string, args ...any) *exitCodeError {
	return &exitCodeError{code: code, msg: fmt.Sprintf(format, args...)}
}

// exitCodeFor maps a query failure to its exit code.
func exitCodeFor(err error) int {
	switch query.KindOf(err) {
	case query.KindConfig:
		return ExitMissingCredential
	case query.KindInput:
		return ExitEmptyInput
	case query.KindRemote:
		return ExitRemote
	default:
		return ExitOther
	}
}
