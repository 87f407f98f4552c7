package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFormat is returned when an input file extension has no reader
var ErrUnsupportedFormat = errors.New("unsupported input format")

// IOError reports a failed read or write of a data file. It is fatal for the run.
type IOError struct {
	Op   string // "open", "read", "write", "create"
	Path string
	Err  error
}

// Error implements the error interface
func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap allows errors.Is(err, fs.ErrNotExist) on the cause
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError wraps an I/O failure with the operation and path
func NewIOError(op, path string, err error) *IOError {
	return &IOError{Op: op, Path: path, Err: err}
}

// SchemaError reports required columns absent from the input header
type SchemaError struct {
	Path    string
	Missing []string
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("%s: missing required columns: %s", e.Path, strings.Join(e.Missing, ", "))
}

// IsIOError reports whether err wraps an *IOError
func IsIOError(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}

// IsSchemaError reports whether err wraps a *SchemaError
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}
