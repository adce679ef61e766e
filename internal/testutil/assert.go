package testutil

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/dshills/CascadeDB/internal/errors"
)

// AssertEqual fails the test when expected and actual are not deeply equal.
func AssertEqual(t *testing.T, expected, actual any, msgAndArgs ...any) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Errorf("expected %v, got %v%s", expected, actual, suffix(msgAndArgs))
	}
}

// AssertNoError fails the test when err is non-nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test when err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertSQLState fails the test unless err carries the given SQLSTATE code.
func AssertSQLState(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with SQLSTATE %s, got nil", code)
	}
	if got := errors.Code(err); got != code {
		t.Errorf("expected SQLSTATE %s, got %q in %v", code, got, err)
	}
}

// AssertTrue fails the test when condition is false.
func AssertTrue(t *testing.T, condition bool, msgAndArgs ...any) {
	t.Helper()
	if !condition {
		t.Errorf("condition is false%s", suffix(msgAndArgs))
	}
}

// AssertFalse fails the test when condition is true.
func AssertFalse(t *testing.T, condition bool, msgAndArgs ...any) {
	t.Helper()
	if condition {
		t.Errorf("condition is true%s", suffix(msgAndArgs))
	}
}

func suffix(msgAndArgs []any) string {
	if len(msgAndArgs) == 0 {
		return ""
	}
	if format, ok := msgAndArgs[0].(string); ok {
		return ": " + fmt.Sprintf(format, msgAndArgs[1:]...)
	}
	return ": " + fmt.Sprint(msgAndArgs...)
}
