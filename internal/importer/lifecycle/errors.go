package lifecycle

import "errors"

// Sentinel kinds for lifecycle import errors.
var (
	ErrFieldCount = errors.New("wrong number of fields")
)
