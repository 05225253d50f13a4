// Package apperr defines the sentinel errors shared by the store,
// middleware and handler layers. Handlers map them to HTTP status
// codes in exactly one place.
package apperr

import "errors"

var (
	// ErrValidation covers missing, empty or oversized fields.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthenticated covers missing, malformed, expired or
	// otherwise invalid bearer tokens, and tokens whose subject no
	// longer exists.
	ErrUnauthenticated = errors.New("not authorized")

	// ErrInvalidCredentials is returned on login mismatch. It is
	// deliberately the same for "unknown email" and "wrong password".
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrForbidden means the caller is authenticated but does not own
	// the resource it tried to mutate.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the referenced document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when signing up with an email
	// that is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
)
