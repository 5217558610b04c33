package parse

import (
	"errors"
	"fmt"
)

// ErrParse is the sentinel matched by every *Error.
var ErrParse = errors.New("parse failed")

// Kind names the grammar an input failed to satisfy.
type Kind string

// Parse error kinds.
const (
	KindDatetime Kind = "datetime"
	KindInteger  Kind = "integer"
	KindDouble   Kind = "double"
)

// Error reports input that does not match the expected grammar. Input is the
// exact offending text.
type Error struct {
	Kind  Kind
	Input string
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to parse %s '%s'", e.Kind, e.Input)
}

// Unwrap allows errors.Is(err, ErrParse).
func (e *Error) Unwrap() error {
	return ErrParse
}

func newError(kind Kind, input string) error {
	return &Error{Kind: kind, Input: input}
}
