// Package errors implements the error type used across blockstatsd: a
// kind-tagged, wrappable error that carries the original cause through the
// pipeline so a fatal run can be logged with its full chain.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies the reason a run aborted. Every kind is fatal at the run
// level (see spec §7) — nothing in this package is retried internally.
type Kind int

const (
	// KindUnknown is the zero value and should not be constructed directly.
	KindUnknown Kind = iota
	// KindIBDNotDone means the node reported it is still in initial block download.
	KindIBDNotDone
	// KindTransport means a call to the node failed: a network error, an
	// unexpected HTTP status, or an RPC error reply.
	KindTransport
	// KindDecode means a response or consensus payload could not be parsed.
	KindDecode
	// KindStats means analysis of a block failed.
	KindStats
	// KindStore means the relational store failed to migrate, query, or write.
	KindStore
	// KindIO means a filesystem operation (CSV export) failed.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindIBDNotDone:
		return "ibd_not_done"
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	case KindStats:
		return "stats"
	case KindStore:
		return "store"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is the error type returned across package boundaries in blockstatsd.
// It carries a Kind for exit-code mapping, a human message, and an optional
// wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error

	// Height is set when the error is attributable to a specific block
	// height (stats/decode failures); -1 when not applicable.
	Height int64
}

// New constructs an Error with no wrapped cause and no associated height.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Height: -1}
}

// Wrap constructs an Error wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause, Height: -1}
}

// WithHeight returns a copy of e with Height set.
func (e *Error) WithHeight(height int64) *Error {
	cp := *e
	cp.Height = height
	return &cp
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if e.Height >= 0 {
		msg = fmt.Sprintf("%s (height=%d)", msg, e.Height)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", msg, e.Cause.Error())
	}
	return msg
}

// Unwrap lets errors.Is/errors.As traverse into the wrapped cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is reports whether target is an *Error with the same Kind, or delegates to
// the wrapped cause.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	var other *Error
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

// NewIBDNotDoneError reports the node is still syncing.
func NewIBDNotDoneError(progress float64) *Error {
	return New(KindIBDNotDone, fmt.Sprintf("node is still in initial block download (%.2f%%)", progress*100))
}

// NewTransportError wraps a failed call to the node.
func NewTransportError(message string, cause error) *Error {
	return Wrap(KindTransport, message, cause)
}

// NewDecodeError wraps a malformed response/consensus payload.
func NewDecodeError(message string, cause error) *Error {
	return Wrap(KindDecode, message, cause)
}

// NewStatsError wraps an analysis failure, identified by block height.
func NewStatsError(height int64, message string, cause error) *Error {
	return Wrap(KindStats, message, cause).WithHeight(height)
}

// NewStoreError wraps a store failure (migration, query, or write).
func NewStoreError(message string, cause error) *Error {
	return Wrap(KindStore, message, cause)
}

// NewIOError wraps a filesystem failure.
func NewIOError(message string, cause error) *Error {
	return Wrap(KindIO, message, cause)
}

// ExitCode maps an error returned from main to a process exit code. Any
// non-blockstatsd error (should not normally occur) maps to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		switch e.Kind {
		case KindIBDNotDone:
			return 2
		case KindTransport:
			return 3
		case KindDecode:
			return 4
		case KindStats:
			return 5
		case KindStore:
			return 6
		case KindIO:
			return 7
		}
	}
	return 1
}
