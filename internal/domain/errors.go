package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrVehicleNotFound     = errors.New("vehicle not found or inactive")
	ErrBookingConflict     = errors.New("vehicle is already booked for the specified time slot")
	ErrInvalidLocationCode = errors.New("invalid pincode format")
)

// FieldError is a single validation failure tied to an input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates field-level failures for one request. Transport
// maps it to a 400, everything else in the taxonomy has its own sentinel.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Err returns nil when no field failed, so callers can write
// `return v.Err()` after collecting checks.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation error: " + strings.Join(msgs, "; ")
}
