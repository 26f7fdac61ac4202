package parley_errors

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidInput       = errors.New("invalid input")
	ErrAlreadyExists      = errors.New("already exists")
	ErrRateLimited        = errors.New("rate limited")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// User-facing condition messages. Each wraps a sentinel so callers keep
// using errors.Is while the exact message reaches the response envelope.

func NoNewDataSupplied() error {
	return fmt.Errorf("%w: No new data supplied", ErrInvalidInput)
}

func NothingToDo() error {
	return fmt.Errorf(`%w: Nothing to do. Specify at least one of "add" or "delete".`, ErrInvalidInput)
}

func AlreadyAMember(userID int64) error {
	return fmt.Errorf("%w: User %d is already a member of this group", ErrConflict, userID)
}

func NoSuchMember(userID int64) error {
	return fmt.Errorf("%w: There is no member '%d' in this user group", ErrConflict, userID)
}

func InvalidUserID(userID int64) error {
	return fmt.Errorf("%w: Invalid user ID: %d", ErrInvalidInput, userID)
}

// Message strips the sentinel prefix from a wrapped condition message so the
// envelope carries only the human-readable part.
func Message(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sentinel := range []error{ErrInvalidInput, ErrConflict, ErrNotFound, ErrForbidden, ErrUnauthorized, ErrServiceUnavailable} {
		if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
			return rest
		}
	}
	return msg
}
