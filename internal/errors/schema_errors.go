package errors

import (
	"fmt"
	"strings"
)

// SchemaError reports an input file whose header is missing required columns.
// It names every missing column at once so the user can fix the file in one
// pass.
type SchemaError struct {
	File           string
	MissingColumns []string
	FoundColumns   []string
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	return fmt.Sprintf("[%s] %s: missing required columns [%s], found [%s]",
		ErrTypeSchema, e.File,
		strings.Join(e.MissingColumns, ", "),
		strings.Join(e.FoundColumns, ", "))
}

// NewSchemaError creates a schema error for an input file
func NewSchemaError(file string, missing, found []string) *SchemaError {
	return &SchemaError{
		File:           file,
		MissingColumns: missing,
		FoundColumns:   found,
	}
}

// RowError reports a single unparseable data row with its position so the
// offending line can be located in the source file.
type RowError struct {
	File   string
	Line   int
	Column string
	Cause  error
}

// Error implements the error interface
func (e *RowError) Error() string {
	return fmt.Sprintf("[%s] %s line %d, column %q: %v",
		ErrTypeParsing, e.File, e.Line, e.Column, e.Cause)
}

// Unwrap allows errors.Is and errors.As to work with RowError
func (e *RowError) Unwrap() error {
	return e.Cause
}

// NewRowError creates a parsing error pinned to one row
func NewRowError(file string, line int, column string, cause error) *RowError {
	return &RowError{File: file, Line: line, Column: column, Cause: cause}
}
