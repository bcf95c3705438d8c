package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy. Adapters translate these to transport status codes;
// anything that does not match one of them is an unexpected failure.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

// NotFoundError names the missing entity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}

	return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError reports that entity id does not exist.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// Violation is one broken rule on one field.
type Violation struct {
	Field   string
	Message string
}

// ValidationError carries every rule an entity broke, in evaluation order.
type ValidationError struct {
	Entity     string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	var b strings.Builder

	b.WriteString("validation failed")
	if e.Entity != "" {
		b.WriteString(" for " + e.Entity)
	}

	for i, v := range e.Violations {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}

		if v.Field != "" {
			b.WriteString(v.Field + ": ")
		}
		b.WriteString(v.Message)
	}

	return b.String()
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError reports the violations found on entity.
func NewValidationError(entity string, violations ...Violation) error {
	return &ValidationError{Entity: entity, Violations: violations}
}

// UnauthorizedError records why a caller was turned away. Reason is meant
// for logs; adapters choose how much of it the client sees.
type UnauthorizedError struct {
	Reason string
}

func (e *UnauthorizedError) Error() string {
	if e.Reason == "" {
		return ErrUnauthorized.Error()
	}

	return "unauthorized: " + e.Reason
}

func (e *UnauthorizedError) Unwrap() error { return ErrUnauthorized }

// NewUnauthorizedError rejects a caller for reason.
func NewUnauthorizedError(reason string) error {
	return &UnauthorizedError{Reason: reason}
}

func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
func IsValidation(err error) bool   { return errors.Is(err, ErrValidation) }
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }
