package services

import "errors"

// Failure taxonomy for the order engine. Callers wrap these with
// fmt.Errorf("%w: ...") so handlers can map the class to a status code
// while keeping the detail for the response body.
var (
	// ErrInvalidInput marks a caller error: a missing or malformed
	// required field. Never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a referenced entity that is absent or in the
	// wrong state, such as an inactive product or a table without an
	// open order.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a store-level uniqueness violation, such as a
	// duplicate table name.
	ErrConflict = errors.New("already exists")
)
