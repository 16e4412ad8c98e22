package norma43

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRecordType     = errors.New("invalid record type")
	ErrMissingAccountContext = errors.New("record requires an open account")
	ErrMissingEntryContext   = errors.New("record requires an open entry")
	ErrRecordCountMismatch   = errors.New("record count mismatch")
	ErrMalformedField        = errors.New("malformed field")
)

// LineError locates a parse failure. Every error returned by Parse is a *LineError.
type LineError struct {
	// Line is the 0-based index of the input line, blank lines included.
	Line int
	// Code is the raw two-character record code.
	Code string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d (record %q): %v", e.Line, e.Code, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// CountMismatchError is raised by the 88 trailer.
type CountMismatchError struct {
	Declared int
	Actual   int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("%v: trailer declares %d records, found %d", ErrRecordCountMismatch, e.Declared, e.Actual)
}

func (e *CountMismatchError) Is(target error) bool {
	return target == ErrRecordCountMismatch
}

// FieldError names the fixed-width field that failed to decode.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v %s %q: %v", ErrMalformedField, e.Field, e.Value, e.Err)
	}

	return fmt.Sprintf("%v %s %q", ErrMalformedField, e.Field, e.Value)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrMalformedField
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
