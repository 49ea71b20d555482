package service

import (
	"errors"
	"strings"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
	ErrInternalError  = errors.New("internal error")
)

// FieldViolation describes one rejected input field.
type FieldViolation struct {
	Field   string
	Type    string
	Message string
	Input   any
}

// ValidationError lists every rejected field of a request. It unwraps to ErrInvalidRequest.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Violations) == 0 {
		return ErrInvalidRequest.Error()
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return ErrInvalidRequest.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRequest
}
