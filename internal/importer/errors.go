package importer

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrecognizedFormat means no parser accepted the file header.
	ErrUnrecognizedFormat = errors.New("unrecognized file format")
	// ErrNoHeader means the file had no usable header row.
	ErrNoHeader = errors.New("no usable header")
	// ErrMissingColumn means a mandatory column is absent from the header.
	ErrMissingColumn = errors.New("missing column")
	// ErrBadDate means a date cell matched none of the known layouts.
	ErrBadDate = errors.New("unparseable date")
	// ErrBadAmount means an amount cell is not a number.
	ErrBadAmount = errors.New("unparseable amount")
)

// ParseError describes a file- or row-level parsing problem.
// Line is 0 for file-level errors.
type ParseError struct {
	File  string
	Line  int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	loc := e.File
	if e.Line > 0 {
		loc = fmt.Sprintf("%s line %d", e.File, e.Line)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s %q: %v", loc, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: %v", loc, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FileLevel reports whether the error aborted the whole file.
func (e *ParseError) FileLevel() bool { return e.Line == 0 }
