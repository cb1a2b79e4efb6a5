package domain

import "errors"

var (
	// ErrRowNotFound means neither exact content nor the business key
	// located the target row in a fresh snapshot.
	ErrRowNotFound = errors.New("row not found")

	// ErrStoreUnavailable wraps backend read/write failures.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrNothingReserved means a release found no active reservation.
	ErrNothingReserved = errors.New("nothing reserved")

	ErrUnauthorized = errors.New("user not allowed")
	ErrRateLimited  = errors.New("rate limited")
	ErrInvalidInput = errors.New("invalid input")
)
