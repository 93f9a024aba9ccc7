package fields

import "fmt"

// MissingFieldError is returned when a mapping lacks a key a rule references
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %q", e.Field)
}

// InvalidFieldError is returned when a value cannot be read as its declared kind
type InvalidFieldError struct {
	Field string
	Want  Kind
	Value any
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid value %v (%T) for %s field %q", e.Value, e.Value, e.Want, e.Field)
}
