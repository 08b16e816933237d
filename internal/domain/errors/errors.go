// Package errors defines the error taxonomy shared across the pipeline.
//
// Failures are contained at the smallest possible scope: per-user lookups
// degrade to a placeholder, per-thread fetches are dropped, per-conversation
// fetches are skipped. Only conversation listing and configuration failures
// are fatal to a run.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the conversation, user or thread does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotAMember indicates the conversation exists but is inaccessible.
	ErrNotAMember = errors.New("not a member")
)

// TransientError wraps a remote failure that may succeed on a later run.
// This layer does not retry transient errors; they propagate to the
// immediate caller, which decides the containment scope.
type TransientError struct {
	msg string
	err error
}

// NewTransientError creates a transient error wrapping err.
func NewTransientError(msg string, err error) *TransientError {
	return &TransientError{msg: msg, err: err}
}

func (e *TransientError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *TransientError) Unwrap() error { return e.err }

// IsTransient reports whether err is (or wraps) a TransientError.
func IsTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}

// PermanentError wraps a remote failure that will not succeed on retry,
// such as revoked credentials or missing scopes.
type PermanentError struct {
	msg string
	err error
}

// NewPermanentError creates a permanent error wrapping err.
func NewPermanentError(msg string, err error) *PermanentError {
	return &PermanentError{msg: msg, err: err}
}

func (e *PermanentError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *PermanentError) Unwrap() error { return e.err }

// RateLimitExceededError is terminal for a single call: the transport
// exhausted its retry budget against rate-limit responses. Distinguishable
// from every other error kind.
type RateLimitExceededError struct {
	// Attempts is the number of rate-limited attempts made.
	Attempts int

	// Last is the final rate-limit error observed.
	Last error
}

func (e *RateLimitExceededError) Error() string {
	return fmt.Sprintf("rate limit retries exhausted after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RateLimitExceededError) Unwrap() error { return e.Last }

// IsRateLimitExceeded reports whether err is (or wraps) a terminal
// rate-limit error.
func IsRateLimitExceeded(err error) bool {
	var r *RateLimitExceededError
	return errors.As(err, &r)
}

// ThreadFetchError marks a reply fetch failure isolated to one thread.
// The thread is logged and dropped; the conversation continues.
type ThreadFetchError struct {
	ConversationID  string
	ThreadTimestamp string
	Err             error
}

func (e *ThreadFetchError) Error() string {
	return fmt.Sprintf("fetching thread %s in %s: %v", e.ThreadTimestamp, e.ConversationID, e.Err)
}

func (e *ThreadFetchError) Unwrap() error { return e.Err }
