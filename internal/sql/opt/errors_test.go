package opt

import (
	"fmt"
	"testing"

	"github.com/dshills/CascadeDB/internal/errors"
	"github.com/dshills/CascadeDB/internal/testutil"
)

func TestErrorKindsAndCodes(t *testing.T) {
	props := NewPropertySet(NewSortProperty(SortKey{Column: "id"}))

	tests := []struct {
		name string
		err  error
		kind ErrorKind
		code string
	}{
		{name: "unknown group", err: newUnknownGroupError(GroupID(9)), kind: UnknownGroup, code: errors.InternalError},
		{name: "no applicable plan", err: newNoApplicablePlanError(GroupID(0), props), kind: NoApplicablePlan, code: errors.FeatureNotSupported},
		{name: "timeout", err: newTimeoutError(GroupID(0), props), kind: OptimizationTimeout, code: errors.QueryCanceled},
		{name: "rule failure", err: newRuleFailureError("JoinCommute", fmt.Errorf("bad binding")), kind: RuleApplicationFailure, code: errors.InternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := KindOf(tt.err)
			testutil.AssertTrue(t, ok, "expected an optimizer error")
			testutil.AssertEqual(t, tt.kind, kind)
			testutil.AssertSQLState(t, tt.err, tt.code)
		})
	}
}

func TestKindOfForeignError(t *testing.T) {
	_, ok := KindOf(fmt.Errorf("not ours"))
	testutil.AssertFalse(t, ok, "foreign errors carry no kind")

	testutil.AssertFalse(t, IsTimeout(nil), "nil has no kind")
	testutil.AssertTrue(t, IsRuleFailure(fmt.Errorf("wrapped: %w", newRuleFailureError("r", fmt.Errorf("x")))), "kind survives wrapping")
}
