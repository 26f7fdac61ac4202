package parley_errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestConditionMessagesWrapSentinels(t *testing.T) {
	cases := []struct {
		err      error
		sentinel error
		message  string
	}{
		{NoNewDataSupplied(), ErrInvalidInput, "No new data supplied"},
		{NothingToDo(), ErrInvalidInput, `Nothing to do. Specify at least one of "add" or "delete".`},
		{AlreadyAMember(17), ErrConflict, "User 17 is already a member of this group"},
		{NoSuchMember(8), ErrConflict, "There is no member '8' in this user group"},
		{InvalidUserID(3), ErrInvalidInput, "Invalid user ID: 3"},
		{fmt.Errorf("%w: database not connected", ErrServiceUnavailable), ErrServiceUnavailable, "database not connected"},
	}

	for _, tc := range cases {
		if !errors.Is(tc.err, tc.sentinel) {
			t.Errorf("%v should wrap %v", tc.err, tc.sentinel)
		}
		if got := Message(tc.err); got != tc.message {
			t.Errorf("Message(%v) = %q, want %q", tc.err, got, tc.message)
		}
	}
}

func TestMessagePassesThroughUnwrapped(t *testing.T) {
	if got := Message(ErrForbidden); got != "forbidden" {
		t.Errorf("Message(ErrForbidden) = %q", got)
	}
	if got := Message(errors.New("plain")); got != "plain" {
		t.Errorf("Message(plain) = %q", got)
	}
	if got := Message(nil); got != "" {
		t.Errorf("Message(nil) = %q", got)
	}
}
