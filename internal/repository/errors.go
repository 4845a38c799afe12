package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when a client with the same email already exists
	ErrDuplicateEmail = errors.New("client with this email already exists")

	// ErrDuplicateReturn is returned when a (client, year) tax return already exists
	ErrDuplicateReturn = errors.New("tax return for this client and year already exists")

	// ErrDuplicateToken is returned when a token with the same hash already exists
	ErrDuplicateToken = errors.New("token with this hash already exists")

	// ErrTokenConsumed is returned when a conditional consume finds the
	// one-time token already spent
	ErrTokenConsumed = errors.New("token already consumed")
)
