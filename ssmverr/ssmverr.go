// Package ssmverr defines the error kinds the texturing core distinguishes:
// InputInvalid and Internal are fatal; ImageUnavailable and Degenerate are
// recovered locally (the caller logs a diagnostic and keeps going);
// PackingOverflow carries a suggested remedy back to the caller.
package ssmverr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an Error.
type Kind int

const (
	// InputInvalid means the mesh, cameras, or options are malformed or
	// internally inconsistent. Fatal.
	InputInvalid Kind = iota
	// ImageUnavailable means a specific photograph could not be decoded.
	// Recovered: the owning camera contributes nothing further.
	ImageUnavailable
	// Degenerate means a triangle/projection was numerically ill-conditioned
	// (zero area, singular projection). Recovered: rating 0 for that pair.
	Degenerate
	// PackingOverflow means the requested atlas dimension cannot hold all
	// charts even at minimum scale.
	PackingOverflow
	// Internal means an invariant was violated. Aborts the pipeline.
	Internal
)

func (k Kind) String() string {
	switch k {
	case InputInvalid:
		return "InputInvalid"
	case ImageUnavailable:
		return "ImageUnavailable"
	case Degenerate:
		return "Degenerate"
	case PackingOverflow:
		return "PackingOverflow"
	case Internal:
		return "Internal"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error wraps an underlying cause with a Kind, preserving pkg/errors'
// stack-trace/cause chain so %+v formatting still works through Unwrap.
type Error struct {
	kind  Kind
	cause error
}

// New builds an Error of the given kind from a message.
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, cause: errors.New(msg)}
}

// Wrap builds an Error of the given kind wrapping an existing error.
func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{kind: kind, cause: errors.Wrap(err, msg)}
}

// Kind returns the error's classification.
func (e *Error) Kind() Kind { return e.kind }

// Error implements the error interface.
func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.kind, e.cause) }

// Unwrap exposes the wrapped cause for errors.Is/errors.As and pkg/errors'
// Cause().
func (e *Error) Unwrap() error { return e.cause }

// Overflow is a PackingOverflow error carrying the suggested new dimension.
type Overflow struct {
	*Error
	SuggestedDimension int
}

// NewOverflow builds a PackingOverflow error with a suggested remedy.
func NewOverflow(suggested int, msg string) *Overflow {
	return &Overflow{Error: New(PackingOverflow, msg), SuggestedDimension: suggested}
}

// Is reports whether err (or anything in its chain) has the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.kind == kind
	}
	return false
}
