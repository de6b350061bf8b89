// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Input validation errors.
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrEmptyHistory    = errors.New("work item has no history entries")

	// Authentication errors.
	ErrUnauthenticated = errors.New("not signed in")

	// Report errors.
	ErrNoDataForPeriod = errors.New("no data for the selected period")

	// Backend errors.
	ErrRemoteFailure = errors.New("backend request failed")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsLocalValidation reports whether an error was caught before any I/O was
// attempted. Such errors never leave the local cache in a partial state.
func IsLocalValidation(err error) bool {
	return errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrEmptyHistory) ||
		errors.Is(err, ErrUnauthenticated)
}
