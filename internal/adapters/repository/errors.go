package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound = errors.New("not found")
	ErrClosed   = errors.New("store closed")
	ErrNilInput = errors.New("nil series collection")
)
