// Package decoding turns kernel procfs report text into typed records.
package decoding

import (
	"errors"
	"fmt"
)

// Sentinel causes wrapped by DecodeError.
var (
	ErrMissingColumn    = errors.New("missing column")
	ErrMalformedNumber  = errors.New("malformed number")
	ErrMalformedAddress = errors.New("malformed address")
	ErrInvalidState     = errors.New("invalid connection state")
)

// Decode operation names reported in DecodeError.Op.
const (
	OpStat        = "stat"
	OpMeminfo     = "meminfo"
	OpSocketTable = "socket table"
)

// DecodeError is a structural parse failure in one line of a report.
type DecodeError struct {
	Op     string // decode operation
	Line   int    // zero-based line index within the report
	Column string // field or column being decoded
	Token  string // offending token, empty when the column is absent
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("decode %s: line %d: %s: %v", e.Op, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("decode %s: line %d: %s %q: %v", e.Op, e.Line, e.Column, e.Token, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
