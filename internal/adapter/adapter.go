// Package adapter gets rendered output for an input string from the page under test.
// Callers do not know whether a live browser, a recording or a fake answers.
package adapter

import (
	"context"
	"errors"
	"fmt"

	"swiftcheck/internal/domain"
)

// Adapter submits input to the system under test and reads its surfaces
type Adapter interface {
	// Submit fills the input surface and returns the output once it is stable
	Submit(ctx context.Context, input string) (string, error)
	// Reset clears the input and output surfaces, failing if they stay dirty
	Reset(ctx context.Context) error
	// Clear activates the page's clear control once. Surfaces that stay
	// dirty are not an error; Read shows what the control left behind.
	Clear(ctx context.Context) error
	// Read returns what the surfaces currently show
	Read(ctx context.Context) (domain.Surfaces, error)
	// Close releases the session
	Close() error
}

// Factory opens isolated adapter sessions
type Factory interface {
	NewSession(ctx context.Context) (Adapter, error)
	Close() error
}

// Kind classifies adapter failures
type Kind string

const (
	KindTimedOut         Kind = "timed_out"
	KindElementNotFound  Kind = "element_not_found"
	KindNavigationFailed Kind = "navigation_failed"
)

// ErrNotRecorded is returned by replay adapters for inputs with no recording
var ErrNotRecorded = errors.New("no recorded output for input")

// Error is a failure to reach or read the system under test
type Error struct {
	Kind     Kind
	Op       string // submit, reset, read, navigate, wait
	Selector string
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Selector != "" {
		msg += fmt.Sprintf(" (%s)", e.Selector)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the adapter error kind from err
func KindOf(err error) (Kind, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return "", false
}

// IsTransient reports whether err is an adapter failure worth retrying.
// Every adapter kind is environmental: network and render races.
func IsTransient(err error) bool {
	_, ok := KindOf(err)
	return ok
}

func newError(kind Kind, op, selector string, err error) *Error {
	return &Error{Kind: kind, Op: op, Selector: selector, Err: err}
}
