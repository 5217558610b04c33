package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNoSources     = errors.New("no import sources given")
	ErrRunInProgress = errors.New("an import run is already in progress")
	ErrNoStore       = errors.New("no store configured")
)
