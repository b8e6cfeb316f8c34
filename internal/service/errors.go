package service

import "errors"

// Error kinds surfaced to the HTTP boundary. Services wrap these with
// fmt.Errorf("%w: detail") so handlers can dispatch with errors.Is while the
// message still carries specifics.
var (
	// ErrValidation means the input is malformed or missing; the caller
	// should correct it and retry.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateEmail means the email is already bound to another user.
	ErrDuplicateEmail = errors.New("email already in use")
	// ErrNotFound means the entity is absent or not owned by the caller.
	// The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials covers both unknown email and password mismatch.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrStoreUnavailable means the database failed or timed out; safe to
	// retry with backoff.
	ErrStoreUnavailable = errors.New("store unavailable")
)
