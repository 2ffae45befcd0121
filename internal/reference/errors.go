package reference

import "errors"

var (
	// ErrBadLink is the base of every invalid link violation.
	ErrBadLink = errors.New("invalid link")

	// ErrBadReference is the base of every invalid @see violation.
	ErrBadReference = errors.New("invalid reference")
)
