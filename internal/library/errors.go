package library

import (
	"errors"
)

// Error kinds for coordinator operations. Callers branch with errors.Is; the
// wrapped message carries the underlying cause.
var (
	// ErrValidation marks malformed user input, rejected before any state change.
	ErrValidation = errors.New("validation error")
	// ErrPersistence marks a local storage failure. Writes are never dropped
	// silently: every persistence fault surfaces as this kind.
	ErrPersistence = errors.New("persistence error")
	// ErrRemote marks a failed call to the remote book service.
	ErrRemote = errors.New("remote service error")
	// ErrSession marks a remote-delete attempt without an active session.
	ErrSession = errors.New("no active session")
)
