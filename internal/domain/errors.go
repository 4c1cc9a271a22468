package domain

import (
	"errors"
	"fmt"
)

// ErrVersionConflict signals that a conditional version write on the
// departure row affected zero records: another writer got there first.
// It stays internal to the reservation path; the retry controller is the
// only consumer, callers never see it.
var ErrVersionConflict = errors.New("inventory version conflict")

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

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// UnavailableError reports a resource in a state that rejects the operation,
// e.g. a cancelled or closed departure.
type UnavailableError struct {
	Resource string
	Status   string
}

func (e UnavailableError) Error() string {
	if e.Status == "" {
		return fmt.Sprintf("%s is unavailable", e.Resource)
	}
	return fmt.Sprintf("%s is %s", e.Resource, e.Status)
}

// InsufficientCapacityError carries the remaining seat count so the caller
// can offer a smaller party size.
type InsufficientCapacityError struct {
	Requested int
	Remaining int
}

func (e InsufficientCapacityError) Error() string {
	return fmt.Sprintf("not enough seats: requested %d, remaining %d", e.Requested, e.Remaining)
}

// ContentionError means the retry budget was spent while still conflicting.
// Distinct from InsufficientCapacityError: the trip is not sold out, the row
// was just busy, so the caller should simply try again.
type ContentionError struct {
	Attempts int
}

func (e ContentionError) Error() string {
	return fmt.Sprintf("still conflicting after %d attempts, try again", e.Attempts)
}

// ReferenceExhaustedError is an internal fatal condition: repeated reference
// collisions over a 32-symbol alphabet indicate a store problem, not bad luck.
type ReferenceExhaustedError struct {
	Attempts int
}

func (e ReferenceExhaustedError) Error() string {
	return fmt.Sprintf("could not generate unique booking reference after %d attempts", e.Attempts)
}

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsUnavailable(err error) bool {
	var target UnavailableError
	return errors.As(err, &target)
}

func IsInsufficientCapacity(err error) bool {
	var target InsufficientCapacityError
	return errors.As(err, &target)
}

func IsContention(err error) bool {
	var target ContentionError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
