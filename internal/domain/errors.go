package domain

import (
	"errors"
	"fmt"
)

// ValidationError covers malformed user input: seat counts, ages,
// mobile numbers, past-dated sessions. The conversation re-prompts in
// the same state.
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	switch {
	case e.Msg != "" && e.Field != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Field != "":
		return fmt.Sprintf("invalid %s", e.Field)
	default:
		return "validation error"
	}
}

func (e ValidationError) Unwrap() error { return e.Err }

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// CapacityError signals that a slot cannot take the requested seats.
// Available carries the live remainder for the user-facing message.
type CapacityError struct {
	Museum    string
	Date      string
	Session   string
	Requested int
	Available int
}

func (e CapacityError) Error() string {
	return fmt.Sprintf("capacity exceeded for %s %s %s: requested %d, available %d",
		e.Museum, e.Date, e.Session, e.Requested, e.Available)
}

// ExternalServiceError wraps failures of collaborators: verification
// gateway, payment checker, messaging transport.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e ExternalServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s unavailable", e.Service)
	}
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e ExternalServiceError) Unwrap() error { return e.Err }

// InternalError covers persistence failures. The caller must treat the
// operation as not committed regardless of the store's actual state.
type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsCapacity(err error) bool {
	var target CapacityError
	return errors.As(err, &target)
}

// AsCapacity extracts the CapacityError details when present.
func AsCapacity(err error) (CapacityError, bool) {
	var target CapacityError
	ok := errors.As(err, &target)
	return target, ok
}

func IsExternal(err error) bool {
	var target ExternalServiceError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
