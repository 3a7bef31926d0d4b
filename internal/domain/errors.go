package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks caller mistakes: bad area, empty threat,
	// missing report field and the like.
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	// ErrDataUnavailable is recovered by the dataset loader and never
	// surfaces past it.
	ErrDataUnavailable = errors.New("data unavailable")
)

// InvalidArgument wraps ErrInvalidArgument with a human-readable message.
func InvalidArgument(format string, args ...any) error {
	return &argError{msg: fmt.Sprintf(format, args...)}
}

type argError struct{ msg string }

func (e *argError) Error() string { return e.msg }
func (e *argError) Unwrap() error { return ErrInvalidArgument }
