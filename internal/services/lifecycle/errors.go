package lifecycle

import "errors"

// Failure kinds returned by the service. Handlers map these to HTTP
// statuses with errors.Is, jadi selalu wrap pakai %w.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidState = errors.New("invalid state")
)
