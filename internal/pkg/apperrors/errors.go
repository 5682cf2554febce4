package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	// Resource errors
	ErrRunNotFound = errors.New("run not found")

	// Dataset errors
	ErrInvalidSchema = errors.New("invalid dataset schema")
	ErrRowParsing    = errors.New("row parsing failed")
	ErrEmptyDataset  = errors.New("dataset is empty")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// SchemaError reports a dataset whose header does not match the required
// `Roll, Name, Email, CGPA, <preference columns...>` layout.
type SchemaError struct {
	// Missing lists the required identity columns that were absent or out of
	// position, or "preference columns" when none were found after CGPA.
	Missing []string
	// Columns is the total number of header columns seen.
	Columns int
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid dataset schema: missing %s (%d columns found)",
		strings.Join(e.Missing, ", "), e.Columns)
}

// Unwrap allows errors.Is(err, ErrInvalidSchema)
func (e *SchemaError) Unwrap() error {
	return ErrInvalidSchema
}

// NewSchemaError creates a SchemaError for the given missing columns
func NewSchemaError(columns int, missing ...string) *SchemaError {
	return &SchemaError{Missing: missing, Columns: columns}
}

// RowError reports a single cell that failed numeric parsing. It carries
// enough context (row number, roll, column, raw value) for the caller to
// locate and fix the source data.
type RowError struct {
	Row    int    `json:"row"`
	Roll   string `json:"roll"`
	Column string `json:"column"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// Error implements the error interface
func (e *RowError) Error() string {
	return fmt.Sprintf("row %d (roll %q): column %q value %q: %s",
		e.Row, e.Roll, e.Column, e.Value, e.Reason)
}

// Unwrap allows errors.Is(err, ErrRowParsing)
func (e *RowError) Unwrap() error {
	return ErrRowParsing
}

// RowErrors collects every RowError found in one pass over a dataset. The
// whole run fails with the full list; no partial output is produced and no
// cell is ever silently coerced.
type RowErrors []*RowError

// Error implements the error interface
func (e RowErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	return fmt.Sprintf("%d cells failed to parse (first: %s)", len(e), e[0].Error())
}

// Unwrap allows errors.Is(err, ErrRowParsing)
func (e RowErrors) Unwrap() error {
	return ErrRowParsing
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewRunNotFoundError creates a custom error for an unknown run ID
func NewRunNotFoundError(id string) error {
	return &CustomError{
		Err:     ErrRunNotFound,
		Message: fmt.Sprintf("run %s not found", id),
	}
}

// NewBadRequestError creates a custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}
