package opt

import (
	stderrors "errors"
	"fmt"

	"github.com/dshills/CascadeDB/internal/errors"
)

// ErrorKind classifies optimizer failures.
type ErrorKind int

const (
	// UnknownGroup is a lookup of a GroupID never issued by this Memo.
	// A programming-contract violation: fail fast.
	UnknownGroup ErrorKind = iota
	// NoApplicablePlan means the root group has no expression satisfying
	// the required properties and no enforcement rule can bridge the gap.
	NoApplicablePlan
	// OptimizationTimeout means the search budget ran out before a
	// complete plan for the requested properties existed. Recoverable:
	// retry with a relaxed budget or accept a default plan.
	OptimizationTimeout
	// RuleApplicationFailure is a rule transform failing on malformed
	// input. Non-recoverable; the session aborts.
	RuleApplicationFailure
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownGroup:
		return "UnknownGroup"
	case NoApplicablePlan:
		return "NoApplicablePlan"
	case OptimizationTimeout:
		return "OptimizationTimeout"
	case RuleApplicationFailure:
		return "RuleApplicationFailure"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Error is an optimizer failure, carrying both the taxonomy kind and a
// SQLSTATE-coded error for client reporting.
type Error struct {
	Kind ErrorKind
	err  *errors.Error
}

func (e *Error) Error() string {
	return e.err.Error()
}

// Unwrap exposes the underlying SQLSTATE error.
func (e *Error) Unwrap() error {
	return e.err
}

func newUnknownGroupError(id GroupID) *Error {
	return &Error{
		Kind: UnknownGroup,
		err: errors.Newf(errors.InternalError, "unknown group %s", id).
			WithDetail("the group id was never issued by this memo").
			WithRoutine("Memo.GetGroup"),
	}
}

func newNoApplicablePlanError(id GroupID, props *PropertySet) *Error {
	return &Error{
		Kind: NoApplicablePlan,
		err: errors.Newf(errors.FeatureNotSupported, "could not produce an execution plan for group %s", id).
			WithDetailf("no expression satisfies required properties %s and no enforcement rule can bridge the gap", props).
			WithRoutine("Optimizer.Optimize"),
	}
}

func newTimeoutError(id GroupID, props *PropertySet) *Error {
	return &Error{
		Kind: OptimizationTimeout,
		err: errors.Newf(errors.QueryCanceled, "optimization timed out before a plan for group %s existed", id).
			WithDetailf("required properties: %s", props).
			WithHint("retry with a larger search_timeout or relax the required properties").
			WithRoutine("Optimizer.Optimize"),
	}
}

func newRuleFailureError(rule string, cause error) *Error {
	return &Error{
		Kind: RuleApplicationFailure,
		err: errors.Newf(errors.InternalError, "rule %s failed: %v", rule, cause).
			WithRoutine("Optimizer.applyRule"),
	}
}

// KindOf returns the taxonomy kind of err, or ok=false when err is not an
// optimizer error.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsUnknownGroup reports whether err is an UnknownGroup failure.
func IsUnknownGroup(err error) bool {
	k, ok := KindOf(err)
	return ok && k == UnknownGroup
}

// IsNoApplicablePlan reports whether err is a NoApplicablePlan failure.
func IsNoApplicablePlan(err error) bool {
	k, ok := KindOf(err)
	return ok && k == NoApplicablePlan
}

// IsTimeout reports whether err is an OptimizationTimeout failure.
func IsTimeout(err error) bool {
	k, ok := KindOf(err)
	return ok && k == OptimizationTimeout
}

// IsRuleFailure reports whether err is a RuleApplicationFailure.
func IsRuleFailure(err error) bool {
	k, ok := KindOf(err)
	return ok && k == RuleApplicationFailure
}
