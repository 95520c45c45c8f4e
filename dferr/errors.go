// Package dferr defines the typed error kinds surfaced by the estimation
// engine. It follows the same shape as a conventional "kind + New"
// constructor package: a small enum of error kinds and a single error type
// that wraps one of them, so callers can branch with errors.Is/errors.As
// instead of string matching.
package dferr

import "fmt"

// Kind identifies which of the documented failure modes occurred.
type Kind int

const (
	// KindProjectionInit means a projection could not be constructed from
	// its token sequence.
	KindProjectionInit Kind = iota + 1
	// KindProjectionTransform means a forward or inverse transform failed.
	KindProjectionTransform
	// KindInsufficientReports means an estimator was invoked with fewer
	// than two valid reports.
	KindInsufficientReports
	// KindSingularSystem means a least-squares or Stansfield normal-equation
	// solve was too ill-conditioned to trust.
	KindSingularSystem
	// KindBracketFailure means line-search bracketing could not find a
	// triple that brackets a minimum.
	KindBracketFailure
	// KindMinimizationDivergence means a multivariate minimizer detected
	// runaway iterates rather than convergence.
	KindMinimizationDivergence
)

func (k Kind) String() string {
	switch k {
	case KindProjectionInit:
		return "projection init error"
	case KindProjectionTransform:
		return "projection transform error"
	case KindInsufficientReports:
		return "insufficient reports"
	case KindSingularSystem:
		return "singular system"
	case KindBracketFailure:
		return "bracket failure"
	case KindMinimizationDivergence:
		return "minimization divergence"
	default:
		return "unknown error"
	}
}

// Error is the concrete error type for every Kind above.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is(err, dferr.New(dferr.KindSingularSystem, "")) to match
// regardless of message/wrapped cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New constructs an *Error of the given kind with an optional message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap constructs an *Error of the given kind, wrapping a lower-level cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}
