package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the store.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing session or datetime on save).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned by repos when a write collides with the unique
// (session, datetime) index. The upsert resolver recovers from it by
// re-resolving; anywhere else handlers map it to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrUnsupportedFormat is returned when an export format is unknown or its
// renderer is not available in this process.
// Handlers should map this to HTTP 415.
var ErrUnsupportedFormat = errors.New("unsupported export format")
