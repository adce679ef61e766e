package errors

import (
	"fmt"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	err := New(UndefinedTable, "table public.users does not exist")
	want := "table public.users does not exist (SQLSTATE 42P01)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	err = err.WithDetail("no table by that name in any visible schema")
	if err.Error() == want {
		t.Error("detail should appear in the message")
	}
}

func TestNewf(t *testing.T) {
	err := Newf(DuplicateTable, "table %s already exists", "public.users")
	if err.Message != "table public.users already exists" {
		t.Errorf("unexpected message: %q", err.Message)
	}
	if err.Code != DuplicateTable {
		t.Errorf("unexpected code: %q", err.Code)
	}
}

func TestBuilders(t *testing.T) {
	err := New(InternalError, "boom").
		WithDetailf("group %d", 7).
		WithHint("report this").
		WithRoutine("Memo.GetGroup")

	if err.Detail != "group 7" || err.Hint != "report this" || err.Routine != "Memo.GetGroup" {
		t.Errorf("builder fields not set: %+v", err)
	}
}

func TestCodeUnwrapsWrappedErrors(t *testing.T) {
	base := New(QueryCanceled, "canceled")
	wrapped := fmt.Errorf("while optimizing: %w", base)

	if Code(wrapped) != QueryCanceled {
		t.Errorf("Code() = %q, want %q", Code(wrapped), QueryCanceled)
	}
	if !HasCode(wrapped, QueryCanceled) {
		t.Error("HasCode should see through wrapping")
	}
	if Code(fmt.Errorf("plain")) != "" {
		t.Error("Code of a plain error should be empty")
	}
}
