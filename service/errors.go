package service

import (
	"errors"
	"fmt"

	"github.com/Euroteck-developer/Reminder-App/repository"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
)

// Error is a client facing failure. Kind is one of the sentinels above.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func validationError(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

func forbiddenError(format string, args ...any) error {
	return &Error{Kind: ErrForbidden, Msg: fmt.Sprintf(format, args...)}
}

func notFoundError(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

// orNotFound turns a repository miss into a client facing not-found error
// and wraps anything else.
func orNotFound(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFoundError("%s not found", what)
	}
	return fmt.Errorf("load %s: %w", what, err)
}
