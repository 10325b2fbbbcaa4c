package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the client.
var (
	// ErrNotFound is a terminal view state: the requested resource is absent.
	ErrNotFound = errors.New("resource not found")
	// ErrAuthRejected means the remote service rejected the credential.
	// Whoever observes it must hand it to the session manager for teardown.
	ErrAuthRejected = errors.New("authentication rejected")
	// ErrSessionExpired is surfaced by session invalidation to the caller
	// whose request triggered the teardown.
	ErrSessionExpired = errors.New("session expired")
	// ErrViewSuperseded marks an orchestration whose session or route
	// changed while it was in flight; its result must be discarded.
	ErrViewSuperseded = errors.New("view superseded")
	// ErrNotPermitted is the fail-closed outcome of a local capability
	// check; the remote call it would have gated is never issued.
	ErrNotPermitted = errors.New("operation not permitted for current identity")
	// ErrAlreadyRegistered suppresses a duplicate registration submission
	// before any network call.
	ErrAlreadyRegistered = errors.New("already registered for this event")
)

// ValidationError is a missing or malformed local field. It never reaches
// the network and is never logged as exceptional.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// RemoteError is any other non-2xx or transport failure. It is surfaced as a
// transient notice; nothing is retried automatically.
type RemoteError struct {
	Status int
	Detail string
}

func (e *RemoteError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("remote error (status %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("remote error (status %d)", e.Status)
}
