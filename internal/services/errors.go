package services

import (
	"errors"
	"strings"
)

var (
	ErrCreationDenied      = errors.New("project creation denied")
	ErrEditDenied          = errors.New("project edit denied")
	ErrUpdateDenied        = errors.New("project update denied")
	ErrValidationFailed    = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrNoAvailabilityFound = errors.New("no availability found")
)

// DeniedError carries the message shown to the user alongside one of the
// Err*Denied sentinels.
type DeniedError struct {
	Err     error
	Message string
}

func (e *DeniedError) Error() string { return e.Message }

func (e *DeniedError) Unwrap() error { return e.Err }

func deny(err error, message string) error {
	return &DeniedError{Err: err, Message: message}
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists per-field problems with submitted form data.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

func invalid(field, message string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// NotFoundError names the missing entity.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func notFound(entity string) error {
	return &NotFoundError{Entity: entity}
}
