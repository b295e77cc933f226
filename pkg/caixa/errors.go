package caixa

import "errors"

// Fetch failures fall into exactly one of three classes. NotFound marks the
// frontier of published history and is not an error to the caller. Transient
// failures are retryable. Malformed payloads are permanent for that draw
// number and must never be coerced into a default value.
var (
	// ErrNotFound is returned when the requested draw number exceeds the latest published draw
	ErrNotFound = errors.New("draw not found")
	// ErrTransient is returned for network failures, timeouts and 5xx responses
	ErrTransient = errors.New("transient fetch failure")
	// ErrMalformed is returned when the response cannot be decoded into a valid draw record
	ErrMalformed = errors.New("malformed draw payload")
)
