package scheduler

import "errors"

// Sentinel errors for the request boundary. Handlers map these to HTTP
// statuses; everything else is treated as an internal fault.
var (
	// ErrInvalidInput marks client-correctable problems: empty lists,
	// missing identifiers, unrecognized severity values.
	ErrInvalidInput = errors.New("invalid input")

	// ErrClassifierUnavailable marks a failure of the severity classifier
	// collaborator. Severities are never guessed on its behalf.
	ErrClassifierUnavailable = errors.New("severity classifier unavailable")
)
