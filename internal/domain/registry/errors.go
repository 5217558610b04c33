package registry

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package.
var (
	ErrUnhandledType     = errors.New("unhandled type")
	ErrInvalidDescriptor = errors.New("invalid descriptor")
	ErrDuplicateName     = errors.New("duplicate canonical name")
)

// UnhandledTypeError reports a raw type tag with no descriptor.
type UnhandledTypeError struct {
	Tag string
}

func (e *UnhandledTypeError) Error() string {
	return fmt.Sprintf("Unhandled type '%s'", e.Tag)
}

// Unwrap allows errors.Is(err, ErrUnhandledType).
func (e *UnhandledTypeError) Unwrap() error {
	return ErrUnhandledType
}
