package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. a field collector holds at least one error).
// Handlers should map this to HTTP 400 or 404 depending on the failure kind.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a write would violate a uniqueness rule,
// such as creating a second category with the same name.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")
