package models

import (
	"errors"
	"fmt"
)

// NoLine marks a FormatError that is not tied to a specific line.
const NoLine = -1

// Catalog format errors.
var (
	ErrMissingHeader   = errors.New("missing header")
	ErrMissingDash     = errors.New("dash must precede product")
	ErrMissingColon    = errors.New("colon must follow product")
	ErrMissingKeyword  = errors.New("keyword not found")
	ErrEmptyName       = errors.New("product name is empty")
	ErrInvalidNumber   = errors.New("invalid number")
	ErrInvalidWeight   = errors.New("invalid weight format")
	ErrInvalidUnit     = errors.New("invalid weight unit")
	ErrNegativeValue   = errors.New("negative value")
	ErrTruncatedRecord = errors.New("truncated record")
)

// FormatError reports malformed catalog input.
// Line is an index into the normalized line sequence, or NoLine.
type FormatError struct {
	Err    error
	Detail string
	Line   int
}

// NewFormatError builds a FormatError for the given line.
func NewFormatError(line int, err error, detail string) *FormatError {
	return &FormatError{Err: err, Detail: detail, Line: line}
}

func (e *FormatError) Error() string {
	msg := e.Err.Error()
	if e.Detail != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Detail)
	}

	if e.Line == NoLine {
		return msg
	}

	return fmt.Sprintf("%s, line %d", msg, e.Line)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
