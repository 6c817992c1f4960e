package table

import (
	"errors"
	"fmt"
)

var (
	// ErrColumnNotFound is matched by every lookup failure on a Table.
	ErrColumnNotFound = errors.New("column not found")
	// ErrParse is matched by every *ParseError.
	ErrParse = errors.New("malformed csv")
	// ErrNotDatetime indicates a time operation on a non-datetime column.
	ErrNotDatetime = errors.New("column is not datetime")
	// ErrNotNumeric indicates a numeric operation on a non-numeric column.
	ErrNotNumeric = errors.New("column is not numeric")
)

// ColumnError reports a missing column.
type ColumnError struct {
	Table  string
	Column string
}

func (e *ColumnError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("column %q not found", e.Column)
	}
	return fmt.Sprintf("column %q not found in %s", e.Column, e.Table)
}

func (e *ColumnError) Unwrap() error { return ErrColumnNotFound }

// ParseError describes a CSV that could not be turned into a Table.
// Line is 1-based and counts the header.
type ParseError struct {
	Path   string
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	msg := "parse " + e.Path
	if e.Line > 0 {
		msg += fmt.Sprintf(": line %d", e.Line)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(", column %q", e.Column)
	}
	return msg + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrParse) match any ParseError.
func (e *ParseError) Is(target error) bool { return target == ErrParse }
