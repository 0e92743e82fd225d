package recstore

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery is returned when a query references an unknown field or
	// carries an invalid argument. It signals a caller error, distinct from a
	// query that simply matched nothing.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrInvalidRecord is returned when a record does not conform to the
	// store schema.
	ErrInvalidRecord = errors.New("invalid record")
)

// UnknownFieldError indicates a query named a field the record type does not have.
//
// It satisfies errors.Is(err, ErrInvalidQuery).
type UnknownFieldError struct {
	Field Field
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("invalid query: unknown field %q", string(e.Field))
}

func (e *UnknownFieldError) Unwrap() error { return ErrInvalidQuery }

// InvalidArgumentError indicates an out-of-range query argument such as a
// negative limit.
//
// It satisfies errors.Is(err, ErrInvalidQuery).
type InvalidArgumentError struct {
	Name  string
	Value int
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid query: %s must not be negative, got %d", e.Name, e.Value)
}

func (e *InvalidArgumentError) Unwrap() error { return ErrInvalidQuery }

// SchemaViolationError indicates a record with missing, undeclared or
// mistyped fields.
//
// It satisfies errors.Is(err, ErrInvalidRecord). The underlying schema error
// can be accessed via errors.As.
type SchemaViolationError struct {
	Key    any
	Field  string
	Reason string
	cause  error
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("invalid record %v: field %q %s", e.Key, e.Field, e.Reason)
}

func (e *SchemaViolationError) Unwrap() []error { return []error{ErrInvalidRecord, e.cause} }
