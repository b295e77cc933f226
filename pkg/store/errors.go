package store

import "errors"

var (
	// ErrCorrupt is returned when the persisted store fails invariant checks on load.
	// It is fatal to the load call; corrupt data is never silently dropped.
	ErrCorrupt = errors.New("draw store is corrupt")
	// ErrInvariantViolation is returned when an append would create a duplicate
	// or invalid record. The append is rejected, never silently merged.
	ErrInvariantViolation = errors.New("append violates store invariant")
	// ErrNoCheckpoint is returned when no acquisition checkpoint marker exists
	ErrNoCheckpoint = errors.New("no acquisition checkpoint")
)
